package pronoundb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"thermometer/internal/common"
)

// Route inside the PronounDB API
const ROUTE_LOOKUP = "/api/v1/lookup?platform=discord&id=%s"

type PronounDB struct {
	baseURL string
	proxy   *common.Proxy
	group   singleflight.Group
}

func NewPronounDB(baseURL string, timeout time.Duration, restrictions []common.Restriction) *PronounDB {
	return &PronounDB{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		proxy:   common.NewProxy(map[string]string{"Accept": "application/json"}, restrictions, timeout),
	}
}

// Get the pronouns a discord user has set in PronounDB, ready to display.
// Anything going wrong just means there is no pronoun data.
// Simultaneous lookups of the same user share a single request
func (pronoundb *PronounDB) GetPronouns(ctx context.Context, userid string) (string, bool) {

	// The shared lookup must not end because its first caller gave up,
	// the proxy timeout still bounds it
	shared := context.WithoutCancel(ctx)
	value, _, _ := pronoundb.group.Do(userid, func() (any, error) {
		return pronoundb.lookup(shared, userid), nil
	})
	display := value.(string)
	return display, display != ""
}

func (pronoundb *PronounDB) lookup(ctx context.Context, userid string) string {

	// Request
	// Lookups are not vital, so the rate limiter may reject them right away
	requestUrl := pronoundb.baseURL + fmt.Sprintf(ROUTE_LOOKUP, url.QueryEscape(userid))
	data, err := pronoundb.proxy.Get(ctx, requestUrl, false)
	if err != nil {
		log.Debug().Msg(fmt.Sprintf("No pronoun data for user %s: %s", userid, err))
		return ""
	}

	// Decode
	code, err := UnmarshalCode(data)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("PronounDB answer for user %s is not correctly formatted", userid))
		return ""
	}

	display, ok := PronounsFromCode(code)
	if !ok {
		log.Debug().Msg(fmt.Sprintf("Pronoun code %q of user %s has nothing to display", code, userid))
		return ""
	}
	return display
}
