package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/msomdec/college-chatbot/internal/domain"
)

// DashboardCache keeps each user's rendered dashboard in the KV store so it
// is built once per login and served from storage afterwards. Entries are
// tagged with the session that rendered them; another session of the same
// user renders its own document.
type DashboardCache struct {
	kv domain.KVStore
}

func NewDashboardCache(kv domain.KVStore) *DashboardCache {
	return &DashboardCache{kv: kv}
}

func dashboardKey(userID string) string {
	return "dashboard:" + userID
}

// Load returns the document cached for userID when sessionID rendered it,
// calling render to build and store it otherwise.
func (c *DashboardCache) Load(ctx context.Context, userID, sessionID string, render func(io.Writer) error) ([]byte, error) {
	entry, err := c.kv.Get(ctx, dashboardKey(userID))
	switch {
	case err == nil:
		if owner, doc, ok := bytes.Cut(entry, []byte{'\n'}); ok && string(owner) == sessionID {
			return doc, nil
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get cached dashboard: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(sessionID)
	buf.WriteByte('\n')
	if err := render(&buf); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	if err := c.kv.Put(ctx, dashboardKey(userID), buf.Bytes()); err != nil {
		return nil, fmt.Errorf("cache dashboard: %w", err)
	}
	return buf.Bytes()[len(sessionID)+1:], nil
}

// Invalidate drops the cached document for userID.
func (c *DashboardCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.kv.Delete(ctx, dashboardKey(userID)); err != nil {
		return fmt.Errorf("invalidate dashboard: %w", err)
	}
	return nil
}
