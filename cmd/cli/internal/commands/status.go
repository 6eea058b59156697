package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type StatusCmd struct {
	Wait     bool `help:"Keep retrying with backoff until the API answers" default:"false"`
	MaxTries uint `help:"Retry budget when waiting" default:"10"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	ping := func() (int, error) {
		reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, apiOrigin(globals), nil)
		if err != nil {
			return 0, backoff.Permanent(err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()

		// Any HTTP answer means the origin is up; auth comes later.
		return resp.StatusCode, nil
	}

	var status int
	if s.Wait {
		status, err = backoff.Retry(ctx, ping,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(s.MaxTries))
	} else {
		status, err = ping()
	}
	if err != nil {
		return fmt.Errorf("API unreachable: %w", err)
	}

	fmt.Printf("API reachable (status %d)\n", status)
	fmt.Printf("Session: %s\n", c.session.State().String())

	return nil
}

// apiOrigin resolves the configured API base URL the same way setup does.
func apiOrigin(globals *Globals) string {
	if globals.APIURL != "" {
		return globals.APIURL
	}
	if cfg := loadFileConfig(); cfg.APIURL != "" {
		return cfg.APIURL
	}
	return defaultAPIURL
}
