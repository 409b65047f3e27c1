// Package clients wraps the remote Pitch Perfect backend API. Every
// operation returns a status-carrying value; network failures never
// surface as Go errors to callers.
package clients

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pitchperfect/pitch-perfect/config"
)

type Gateway struct {
	base string
	c    *http.Client
	log  *logrus.Entry

	processTimeout time.Duration
	healthTimeout  time.Duration
	voicesTimeout  time.Duration
}

func New(cfg *config.Root, log *logrus.Entry) *Gateway {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Gateway{
		base:           cfg.Backend.URL,
		c:              &http.Client{},
		log:            log.WithField("component", "gateway"),
		processTimeout: config.DurSeconds(cfg.Backend.RequestTimeout),
		healthTimeout:  config.DurSeconds(cfg.Backend.HealthTimeout),
		voicesTimeout:  config.DurSeconds(cfg.Backend.VoicesTimeout),
	}
}

// HealthCheck reports whether the backend answers GET /health with 200
// within the health timeout. It never returns an error.
func (g *Gateway) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, g.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := g.c.Do(req)
	if err != nil {
		g.log.WithError(err).Debug("health check failed")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
