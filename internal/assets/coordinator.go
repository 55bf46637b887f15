package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Names of the slots an asset can fill in the info embed
const (
	SLOT_AVATAR = "avatar"
	SLOT_BANNER = "banner"
)

// Replier sends a reply to wherever the command came from,
// and edits that same reply afterwards
type Replier interface {
	Send(ctx context.Context, embeds []*discordgo.MessageEmbed, files []*discordgo.File) (*discordgo.Message, error)
	Edit(ctx context.Context, message *discordgo.Message, embeds []*discordgo.MessageEmbed, files []*discordgo.File) error
}

// The assets are patched into the first embed, so there has to be one
var ErrNoEmbeds = errors.New("no embed to attach the assets to")

type Source interface {
	Fetch(ctx context.Context, ref *Ref, slot string) (Result, error)
}

// Coordinator fetches the avatar and banner of an info embed concurrently.
// The reply goes out as soon as both are fetched or the deadline passes,
// and assets arriving later are patched into it with a single edit
type Coordinator struct {
	source   Source
	deadline time.Duration
}

func NewCoordinator(source Source, deadline time.Duration) *Coordinator {
	return &Coordinator{source, deadline}
}

type outcome struct {
	result Result
	err    error
}

type task struct {
	slot     string
	outcomes chan outcome
	finished bool
}

// Reply sends the embeds, the first of them being the one whose thumbnail
// (avatar) and image (banner) get pointed to the attachments.
// Fetch failures other than a missing asset never prevent the reply,
// they are returned once the reply is in its final state
func (coordinator *Coordinator) Reply(ctx context.Context, replier Replier, avatar *Ref, banner *Ref, embeds []*discordgo.MessageEmbed) error {

	// Nothing to fetch, so nothing to wait for
	if avatar == nil && banner == nil {
		_, err := replier.Send(ctx, embeds, nil)
		return err
	}
	if len(embeds) == 0 {
		return ErrNoEmbeds
	}

	// Launch the fetches
	var wg sync.WaitGroup
	tasks := []*task{}
	refs := []struct {
		slot string
		ref  *Ref
	}{{SLOT_AVATAR, avatar}, {SLOT_BANNER, banner}}
	for _, r := range refs {
		if r.ref == nil {
			continue
		}
		t := &task{slot: r.slot, outcomes: make(chan outcome, 1)}
		tasks = append(tasks, t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := coordinator.source.Fetch(ctx, r.ref, r.slot)
			t.outcomes <- outcome{result, err}
		}()
	}

	// Wait for all of them or the deadline, whichever comes first
	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()
	timer := time.NewTimer(coordinator.deadline)
	select {
	case <-allDone:
	case <-timer.C:
		log.Debug().Msg(fmt.Sprintf("Asset deadline of %s reached", coordinator.deadline))
	}
	timer.Stop()

	// Attach whatever is already there
	var files []*discordgo.File
	var errs []error
	for _, t := range tasks {
		select {
		case o := <-t.outcomes:
			t.finished = true
			files, errs = apply(embeds[0], t.slot, o, files, errs)
		default:
		}
	}

	message, err := replier.Send(ctx, embeds, files)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}

	// Stragglers are awaited with no further timeout
	backfilled := len(files)
	for _, t := range tasks {
		if t.finished {
			continue
		}
		files, errs = apply(embeds[0], t.slot, <-t.outcomes, files, errs)
	}
	if len(files) == backfilled {
		return errors.Join(errs...)
	}

	// The initial files were already read once by the send
	if err := rewind(files); err != nil {
		return errors.Join(append(errs, err)...)
	}
	log.Debug().Msg(fmt.Sprintf("Backfilling %d late assets", len(files)-backfilled))
	if err := replier.Edit(ctx, message, embeds, files); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Move every file back to its start. A file that cannot be rewound
// would be attached empty, so the edit is not worth making
func rewind(files []*discordgo.File) error {
	for _, file := range files {
		seeker, ok := file.Reader.(io.Seeker)
		if !ok {
			return fmt.Errorf("file %s cannot be rewound", file.Name)
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("could not rewind file %s: %w", file.Name, err)
		}
	}
	return nil
}

// Point the embed to the fetched asset, if there is anything usable
func apply(embed *discordgo.MessageEmbed, slot string, o outcome, files []*discordgo.File, errs []error) ([]*discordgo.File, []error) {

	if o.err != nil {
		return files, append(errs, o.err)
	}
	if !o.result.Usable() {
		return files, errs
	}

	url := "attachment://" + o.result.Filename
	switch slot {
	case SLOT_AVATAR:
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	case SLOT_BANNER:
		embed.Image = &discordgo.MessageEmbedImage{URL: url}
	}
	return append(files, o.result.File()), errs
}
