package assets

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestRefURL(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{KIND_AVATAR, "80351110224678912", "8342729096ea3675442027381ff50dfe"}, "https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png?size=4096"},
		{Ref{KIND_BANNER, "1", "a_1269e74af4df7417b13759eae50c83dc"}, "https://cdn.discordapp.com/banners/1/a_1269e74af4df7417b13759eae50c83dc.gif?size=4096"},
	}
	for _, test := range tests {
		if got := test.ref.URL("https://cdn.discordapp.com/", 4096); got != test.want {
			t.Errorf("got %s, want %s", got, test.want)
		}
	}
}

func TestUserRefs(t *testing.T) {
	user := &discordgo.User{ID: "1", Avatar: "abc"}
	if ref := UserAvatar(user); ref == nil || ref.Kind != KIND_AVATAR || ref.Hash != "abc" {
		t.Errorf("unexpected avatar ref %+v", ref)
	}
	if ref := UserBanner(user); ref != nil {
		t.Errorf("user without banner should have no ref, got %+v", ref)
	}
}

func TestDefaultAvatarURL(t *testing.T) {
	legacy := &discordgo.User{ID: "1", Discriminator: "1337"}
	if got := DefaultAvatarURL("https://cdn.discordapp.com", legacy); got != "https://cdn.discordapp.com/embed/avatars/2.png" {
		t.Errorf("unexpected legacy default avatar %s", got)
	}
	// (80351110224678912 >> 22) % 6 == 5
	migrated := &discordgo.User{ID: "80351110224678912", Discriminator: "0"}
	if got := DefaultAvatarURL("https://cdn.discordapp.com", migrated); got != "https://cdn.discordapp.com/embed/avatars/5.png" {
		t.Errorf("unexpected default avatar %s", got)
	}
}
