package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lmoralesc/pausia/core"
)

// loadProfile fetches the authoritative profile row for a subject and
// applies the result only while this call is still the newest one issued.
// A load superseded by a newer one mutates nothing; without that guard a
// slow stale lookup racing a fast fresh one could overwrite correct state.
//
// An empty subject represents the signed-out state: profile cleared, fetch
// marked complete, error cleared, snapshot cleared.
func (c *Controller) loadProfile(ctx context.Context, subjectID string) *core.Profile {
	if subjectID == "" {
		c.mu.Lock()
		c.state.Profile = nil
		c.state.ProfileFetched = true
		c.state.Err = ""
		c.mu.Unlock()
		c.store.WriteCachedProfile(nil)
		return nil
	}

	c.mu.Lock()
	c.profileSeq++
	seq := c.profileSeq
	c.state.ProfileLoading = true
	c.state.Err = ""
	c.state.SlowProfile = false
	c.mu.Unlock()
	c.profileWatch.Start()

	profile, err := c.fetchProfile(ctx, subjectID)

	c.mu.Lock()
	if seq != c.profileSeq {
		// Superseded while in flight; the newer call's result wins.
		c.mu.Unlock()
		return nil
	}

	defer func() {
		c.state.ProfileLoading = false
		c.state.ProfileFetched = true
		c.state.SlowProfile = false
		// Stop while the lock still guarantees this is the newest load; a
		// later Stop could disarm a timer a newer load just started.
		c.profileWatch.Stop()
		c.mu.Unlock()
	}()

	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		c.state.Profile = nil
		c.state.Err = core.ProfileNotFoundSentinel
		c.store.WriteCachedProfile(nil)
		return nil
	case err != nil:
		c.state.Profile = nil
		c.state.Err = err.Error()
		c.store.WriteCachedProfile(nil)
		return nil
	default:
		c.state.Profile = profile
		c.state.Err = ""
		c.store.WriteCachedProfile(profile)
		return profile
	}
}

// fetchProfile treats a panicking store like a failed lookup.
func (c *Controller) fetchProfile(ctx context.Context, subjectID string) (profile *core.Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("profile lookup panicked: %v", r)
		}
	}()
	return c.profiles.GetProfileByID(ctx, subjectID)
}
