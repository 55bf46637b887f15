package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"thermometer/internal/common"
)

type Status int

const (
	RESULT_ABSENT    Status = iota // Nothing to fetch
	RESULT_NOT_FOUND               // The reference exists but the CDN does not have it
	RESULT_SUCCESS
)

// Result of materialising a Ref into bytes
type Result struct {
	Status   Status
	Data     []byte
	Filename string
}

func (result Result) Usable() bool {
	return result.Status == RESULT_SUCCESS && len(result.Data) > 0
}

// File ready to be attached to a message
func (result Result) File() *discordgo.File {
	contentType := "image/png"
	if bytes.HasPrefix(result.Data, []byte("GIF8")) {
		contentType = "image/gif"
	}
	return &discordgo.File{Name: result.Filename, ContentType: contentType, Reader: bytes.NewReader(result.Data)}
}

type Fetcher struct {
	cdn   string
	size  int
	proxy *common.Proxy
}

// The CDN is not rate limited on our side, Discord does not publish limits for it
func NewFetcher(cdn string, size int, timeout time.Duration) *Fetcher {
	return &Fetcher{cdn, size, common.NewProxy(nil, nil, timeout)}
}

func (fetcher *Fetcher) URL(ref *Ref) string {
	return ref.URL(fetcher.cdn, fetcher.size)
}

// Download the asset and name the file after the slot it fills,
// e.g. "avatar.png" or "banner.gif"
func (fetcher *Fetcher) Fetch(ctx context.Context, ref *Ref, slot string) (Result, error) {

	if ref == nil {
		return Result{Status: RESULT_ABSENT}, nil
	}

	data, err := fetcher.proxy.Get(ctx, fetcher.URL(ref), true)
	if errors.Is(err, common.ErrNotFound) {
		log.Debug().Msg(fmt.Sprintf("Asset %s/%s not found in the CDN", ref.Kind, ref.Hash))
		return Result{Status: RESULT_NOT_FOUND}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("could not fetch %s: %w", slot, err)
	}

	return Result{Status: RESULT_SUCCESS, Data: data, Filename: slot + "." + ref.Extension()}, nil
}
