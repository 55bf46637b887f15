package assets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Path segments of the different kinds of assets in the CDN
const (
	KIND_AVATAR           = "avatars"
	KIND_BANNER           = "banners"
	KIND_ICON             = "icons"
	KIND_SPLASH           = "splashes"
	KIND_DISCOVERY_SPLASH = "discovery-splashes"
)

// Ref points to an image hosted in the CDN.
// A nil *Ref means the asset is not set
type Ref struct {
	Kind  string
	Owner string
	Hash  string
}

func newRef(kind string, owner string, hash string) *Ref {
	if hash == "" {
		return nil
	}
	return &Ref{Kind: kind, Owner: owner, Hash: hash}
}

func UserAvatar(user *discordgo.User) *Ref {
	return newRef(KIND_AVATAR, user.ID, user.Avatar)
}

func UserBanner(user *discordgo.User) *Ref {
	return newRef(KIND_BANNER, user.ID, user.Banner)
}

func GuildIcon(guild *discordgo.Guild) *Ref {
	return newRef(KIND_ICON, guild.ID, guild.Icon)
}

func GuildBanner(guild *discordgo.Guild) *Ref {
	return newRef(KIND_BANNER, guild.ID, guild.Banner)
}

func GuildSplash(guild *discordgo.Guild) *Ref {
	return newRef(KIND_SPLASH, guild.ID, guild.Splash)
}

func GuildDiscoverySplash(guild *discordgo.Guild) *Ref {
	return newRef(KIND_DISCOVERY_SPLASH, guild.ID, guild.DiscoverySplash)
}

// Animated hashes carry the "a_" prefix
func (ref *Ref) Animated() bool {
	return strings.HasPrefix(ref.Hash, "a_")
}

// Static images are always requested as png,
// animated ones keep their gif format
func (ref *Ref) Extension() string {
	if ref.Animated() {
		return "gif"
	}
	return "png"
}

// URL of the asset in the given CDN, at the given size
func (ref *Ref) URL(cdn string, size int) string {
	return fmt.Sprintf("%s/%s/%s/%s.%s?size=%d", strings.TrimSuffix(cdn, "/"), ref.Kind, ref.Owner, ref.Hash, ref.Extension(), size)
}

// URL of the avatar Discord assigns to users without a custom one
func DefaultAvatarURL(cdn string, user *discordgo.User) string {
	var index uint64
	if user.Discriminator == "" || user.Discriminator == "0" {
		id, _ := strconv.ParseUint(user.ID, 10, 64)
		index = (id >> 22) % 6
	} else {
		discriminator, _ := strconv.ParseUint(user.Discriminator, 10, 64)
		index = discriminator % 5
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", strings.TrimSuffix(cdn, "/"), index)
}
