package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"thermometer/internal/assets"
)

func TestGetGuildOutsideGuild(t *testing.T) {
	bot := &Bot{}
	if _, err := bot.getGuild(context.Background(), &Invocation{}); !errors.Is(err, ErrNotInGuild) {
		t.Errorf("expected ErrNotInGuild, got %v", err)
	}
}

func TestAvatarURL(t *testing.T) {
	bot := &Bot{cdn: "https://cdn.example", fetcher: assets.NewFetcher("https://cdn.example", 4096, time.Second)}

	custom := &discordgo.User{ID: "80351110224678912", Avatar: "a_abc"}
	if got := bot.avatarURL(custom); got != "https://cdn.example/avatars/80351110224678912/a_abc.gif?size=4096" {
		t.Errorf("unexpected custom avatar url %q", got)
	}
	fallback := &discordgo.User{ID: "80351110224678912", Discriminator: "0"}
	if got := bot.avatarURL(fallback); got != "https://cdn.example/embed/avatars/5.png" {
		t.Errorf("unexpected default avatar url %q", got)
	}
}

func TestOptionUserID(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
	}
	if got := optionUserID(options); got != "42" {
		t.Errorf("got %q, want 42", got)
	}
	if got := optionUserID(nil); got != "" {
		t.Errorf("got %q, want the author", got)
	}
}
