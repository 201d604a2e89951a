package session

import (
	"consultoria-tcp/domain"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now atomic.Int64
}

func newFakeClock(t time.Time) *fakeClock {
	c := &fakeClock{}
	c.now.Store(t.UnixNano())
	return c
}

func (c *fakeClock) Now() time.Time {
	return time.Unix(0, c.now.Load())
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}

var consultant = domain.Identity{UserID: 7, Email: "ana@consult.io", Name: "Ana", Role: domain.RoleConsultant}

func TestStore_ValidateSession(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock(time.Now())
	store := NewStore(clock.Now)

	// Given a session for tok-A valid for one hour
	store.Put(Session{Token: "tok-A", Identity: consultant, ExpiresAt: clock.Now().Add(time.Hour)})

	// Then the token resolves to the consultant
	identity, ok := store.ValidateSession("tok-A")
	req.True(ok)
	req.Equal(consultant, identity)

	// And unknown or empty tokens do not
	_, ok = store.ValidateSession("tok-Z")
	req.False(ok)
	_, ok = store.ValidateSession("")
	req.False(ok)
}

func TestStore_Expired_Session_Is_Rejected_And_Removed(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock(time.Now())
	store := NewStore(clock.Now)
	store.Put(Session{Token: "tok-A", Identity: consultant, ExpiresAt: clock.Now().Add(time.Minute)})

	// When the session outlives its expiry
	clock.Advance(time.Minute)

	// Then it is rejected like an unknown token
	_, ok := store.ValidateSession("tok-A")
	req.False(ok)
	req.Equal(0, store.Len())
}

func TestStore_Invalidate(t *testing.T) {
	req := require.New(t)
	store := NewStore(nil)
	store.Put(Session{Token: "tok-A", Identity: consultant})

	req.True(store.Invalidate("tok-A"))
	req.False(store.Invalidate("tok-A"))

	_, ok := store.ValidateSession("tok-A")
	req.False(ok)
}

func TestStore_Sweep(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock(time.Now())
	store := NewStore(clock.Now)
	store.Put(Session{Token: "short", Identity: consultant, ExpiresAt: clock.Now().Add(time.Second)})
	store.Put(Session{Token: "long", Identity: consultant, ExpiresAt: clock.Now().Add(time.Hour)})
	store.Put(Session{Token: "forever", Identity: consultant})

	clock.Advance(time.Minute)

	req.Equal(1, store.Sweep())
	req.Equal(2, store.Len())
}

func TestStore_Concurrent_Readers_And_Writers(t *testing.T) {
	req := require.New(t)
	store := NewStore(nil)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Put(Session{Token: fmt.Sprintf("tok-%d", i), Identity: consultant, ExpiresAt: time.Now().Add(time.Hour)})
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.ValidateSession(fmt.Sprintf("tok-%d", j%20))
			}
		}(i)
	}
	wg.Wait()

	req.Equal(20, store.Len())
}

func TestStore_Refresh(t *testing.T) {
	req := require.New(t)
	store := NewStore(nil)

	// Given two sessions of the same consultant and one of somebody else
	store.Put(Session{Token: "tok-A", Identity: consultant})
	store.Put(Session{Token: "tok-A2", Identity: consultant})
	store.Put(Session{Token: "tok-B", Identity: domain.Identity{UserID: 3, Name: "Bruno", Role: domain.RoleClient}})

	// When the consultant is renamed
	renamed := consultant
	renamed.Name = "Ana Paula"
	touched := store.Refresh(renamed)

	// Then both of her sessions carry the new name
	req.Equal(2, touched)
	for _, token := range []string{"tok-A", "tok-A2"} {
		identity, ok := store.ValidateSession(token)
		req.True(ok)
		req.Equal("Ana Paula", identity.Name)
	}
	other, ok := store.ValidateSession("tok-B")
	req.True(ok)
	req.Equal("Bruno", other.Name)
}
