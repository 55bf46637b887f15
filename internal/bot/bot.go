package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"thermometer/internal/assets"
	"thermometer/internal/common"
	"thermometer/internal/config"
	"thermometer/internal/pronoundb"
)

const intents = discordgo.IntentGuilds |
	discordgo.IntentGuildMembers |
	discordgo.IntentGuildPresences |
	discordgo.IntentGuildMessages |
	discordgo.IntentMessageContent

var ErrNotInGuild = errors.New("command only available inside a guild")

type Bot struct {
	prefix         string
	commandGuildID string
	cdn            string
	session        *discordgo.Session
	fetcher        *assets.Fetcher
	coordinator    *assets.Coordinator
	pronoundb      *pronoundb.PronounDB // nil when disabled
	stopwatch      common.Stopwatch     // Started when the bot comes online
	ctx            context.Context
}

// Everything a command needs to know about where it was invoked
type Invocation struct {
	id      uuid.UUID
	command string
	session *discordgo.Session
	guildID string
	author  *discordgo.User
	replier Replier
}

func NewBot(cfg *config.Config) (*Bot, error) {

	var bot Bot

	// Create session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("could not create discord session: %w", err)
	}
	session.Identify.Intents = intents
	bot.session = session

	bot.prefix = cfg.Prefix
	bot.commandGuildID = cfg.CommandGuildID
	bot.cdn = cfg.Assets.CdnURL
	// Assets
	bot.fetcher = assets.NewFetcher(cfg.Assets.CdnURL, cfg.Assets.Size, cfg.Assets.Timeout)
	bot.coordinator = assets.NewCoordinator(bot.fetcher, cfg.Assets.Deadline)
	// Pronouns
	if cfg.PronounDB.Enabled {
		bot.pronoundb = pronoundb.NewPronounDB(cfg.PronounDB.BaseURL, cfg.PronounDB.Timeout, cfg.PronounDB.Restrictions)
	}
	bot.ctx = context.Background()

	return &bot, nil
}

// Run the bot until the context is done
func (bot *Bot) Run(ctx context.Context) error {

	bot.ctx = ctx

	// Event handlers
	bot.session.AddHandler(bot.Receive)
	bot.session.AddHandler(bot.Interact)
	bot.session.AddHandlerOnce(func(session *discordgo.Session, ready *discordgo.Ready) {
		log.Info().Msg(fmt.Sprintf("Logged in as %s, in %d guilds", ready.User.Username, len(ready.Guilds)))
		if err := bot.registerCommands(session, ready.User.ID); err != nil {
			log.Error().Err(err).Msg("Could not register application commands")
		}
	})

	// Open session
	if err := bot.session.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer bot.session.Close()
	bot.stopwatch.Start()

	log.Info().Msg("Bot running, waiting for events")
	<-ctx.Done()
	log.Info().Msg("Shutting down")
	return nil
}

// Register the application commands and leave
func (bot *Bot) Register(ctx context.Context) error {

	ready := make(chan string, 1)
	bot.session.AddHandlerOnce(func(session *discordgo.Session, event *discordgo.Ready) {
		ready <- event.User.ID
	})
	if err := bot.session.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer bot.session.Close()

	select {
	case appID := <-ready:
		return bot.registerCommands(bot.session, appID)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (bot *Bot) registerCommands(session *discordgo.Session, appID string) error {

	registered, err := session.ApplicationCommandBulkOverwrite(appID, bot.commandGuildID, applicationCommands)
	if err != nil {
		return fmt.Errorf("could not overwrite application commands: %w", err)
	}
	if bot.commandGuildID == "" {
		log.Info().Msg(fmt.Sprintf("Registered %d application commands globally", len(registered)))
	} else {
		log.Info().Msg(fmt.Sprintf("Registered %d application commands in guild %s", len(registered), bot.commandGuildID))
	}
	return nil
}

func (bot *Bot) Receive(session *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages, and the ones from other bots
	if message.Author == nil || message.Author.Bot {
		return
	}
	if session.State.User != nil && message.Author.ID == session.State.User.ID {
		return
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(bot.prefix, message.Content)
	if parseResult.parseid == PARSEID_NO_BOT_PREFIX {
		return
	}

	inv := &Invocation{
		id:      uuid.New(),
		session: session,
		guildID: message.GuildID,
		author:  message.Author,
		replier: NewMessageReplier(session, message.Message),
	}

	if parseResult.parseid != PARSEID_OK {
		// The command is invalid input, so it contains an error message
		errorMessage := parseResult.errorMessage
		log.Debug().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, errorMessage))
		inv.command = "parse"
		bot.run(inv, func(ctx context.Context) error {
			return inv.replier.Reply(ctx, InputNotValid(errorMessage))
		})
		return
	}

	log.Debug().Msg(fmt.Sprintf("Command understood: %s", message.Content))
	switch parseResult.command {
	case COMMAND_UPTIME:
		inv.command = "uptime"
		bot.run(inv, func(ctx context.Context) error { return bot.uptime(ctx, inv) })
	case COMMAND_AVATAR:
		inv.command = "avatar"
		bot.run(inv, func(ctx context.Context) error { return bot.avatar(ctx, inv, parseResult.userid) })
	case COMMAND_WHOIS:
		inv.command = "whois"
		bot.run(inv, func(ctx context.Context) error { return bot.whois(ctx, inv, parseResult.userid) })
	case COMMAND_GUILD_INFO:
		inv.command = "guild info"
		bot.run(inv, func(ctx context.Context) error { return bot.guildInfo(ctx, inv) })
	case COMMAND_GUILD_CHANNELS:
		inv.command = "guild channels"
		bot.run(inv, func(ctx context.Context) error { return bot.guildChannels(ctx, inv) })
	case COMMAND_GUILD_EMOJIS:
		inv.command = "guild emojis"
		bot.run(inv, func(ctx context.Context) error { return bot.guildEmojis(ctx, inv) })
	case COMMAND_GUILD_MEMBERS:
		inv.command = "guild members"
		bot.run(inv, func(ctx context.Context) error { return bot.guildMembers(ctx, inv) })
	case COMMAND_HELP:
		inv.command = "help"
		bot.run(inv, func(ctx context.Context) error { return bot.help(ctx, inv) })
	default:
		log.Error().Msg(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
	}
}

func (bot *Bot) Interact(session *discordgo.Session, interaction *discordgo.InteractionCreate) {

	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := interaction.ApplicationCommandData()

	author := interaction.User
	if interaction.Member != nil {
		author = interaction.Member.User
	}

	// The role mentions listing is only for the eyes of whoever asked
	replier := NewInteractionReplier(session, interaction.Interaction, data.Name == CONTEXT_MENU_ROLE_MENTIONS)
	inv := &Invocation{
		id:      uuid.New(),
		command: data.Name,
		session: session,
		guildID: interaction.GuildID,
		author:  author,
		replier: replier,
	}

	bot.run(inv, func(ctx context.Context) error {

		if err := replier.Defer(ctx); err != nil {
			return fmt.Errorf("could not acknowledge interaction: %w", err)
		}

		switch data.Name {
		case "uptime":
			return bot.uptime(ctx, inv)
		case "avatar", "pfp":
			return bot.avatar(ctx, inv, optionUserID(data.Options))
		case "whois":
			return bot.whois(ctx, inv, optionUserID(data.Options))
		case "guild":
			if len(data.Options) == 0 {
				return bot.guildInfo(ctx, inv)
			}
			inv.command = "guild " + data.Options[0].Name
			switch data.Options[0].Name {
			case "channels":
				return bot.guildChannels(ctx, inv)
			case "emojis":
				return bot.guildEmojis(ctx, inv)
			case "members":
				return bot.guildMembers(ctx, inv)
			default:
				return bot.guildInfo(ctx, inv)
			}
		case CONTEXT_MENU_ROLE_MENTIONS:
			var message *discordgo.Message
			if data.Resolved != nil {
				message = data.Resolved.Messages[data.TargetID]
			}
			return bot.roleMentions(ctx, inv, message)
		default:
			return fmt.Errorf("application command %s is not one of the possible ones", data.Name)
		}
	})
}

// Run a command, reporting any error it ends with.
// Users do not get a message for those
func (bot *Bot) run(inv *Invocation, command func(ctx context.Context) error) {

	logger := log.With().Str("invocation", inv.id.String()).Str("command", inv.command).Str("guild", inv.guildID).Logger()
	if inv.author != nil {
		logger = logger.With().Str("author", inv.author.ID).Logger()
	}
	ctx := logger.WithContext(bot.ctx)

	start := time.Now()
	if err := command(ctx); err != nil {
		if errors.Is(err, ErrNotInGuild) {
			if err := inv.replier.Reply(ctx, "This command can only be used inside a server."); err == nil {
				return
			}
		}
		logger.Error().Err(err).Msg("Command failed")
		return
	}
	logger.Debug().Dur("took", time.Since(start)).Msg("Command completed")
}

func optionUserID(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, option := range options {
		if option.Name == "user" && option.Type == discordgo.ApplicationCommandOptionUser {
			return option.UserValue(nil).ID
		}
	}
	return ""
}

func (bot *Bot) avatarURL(user *discordgo.User) string {
	if avatar := assets.UserAvatar(user); avatar != nil {
		return bot.fetcher.URL(avatar)
	}
	return assets.DefaultAvatarURL(bot.cdn, user)
}

// Fetch a user from the API, the author when no id is given
func (bot *Bot) getUser(ctx context.Context, inv *Invocation, userid string) (*discordgo.User, error) {

	if userid == "" {
		if inv.author == nil {
			return nil, fmt.Errorf("no user given and no author known")
		}
		userid = inv.author.ID
	}
	user, err := inv.session.User(userid, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("could not fetch user %s: %w", userid, err)
	}
	return user, nil
}

func (bot *Bot) getMember(ctx context.Context, inv *Invocation, userid string) (*discordgo.Member, error) {

	if member, err := inv.session.State.Member(inv.guildID, userid); err == nil {
		return member, nil
	}
	return inv.session.GuildMember(inv.guildID, userid, discordgo.WithContext(ctx))
}

func (bot *Bot) getGuild(ctx context.Context, inv *Invocation) (*discordgo.Guild, error) {

	if inv.guildID == "" {
		return nil, ErrNotInGuild
	}
	if guild, err := inv.session.State.Guild(inv.guildID); err == nil {
		return guild, nil
	}
	guild, err := inv.session.Guild(inv.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("could not fetch guild %s: %w", inv.guildID, err)
	}
	return guild, nil
}

func (bot *Bot) getRoles(ctx context.Context, inv *Invocation) []*discordgo.Role {

	if guild, err := inv.session.State.Guild(inv.guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles
	}
	roles, err := inv.session.GuildRoles(inv.guildID, discordgo.WithContext(ctx))
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Could not fetch guild roles")
		return nil
	}
	return roles
}
