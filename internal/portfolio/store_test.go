package portfolio

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore(Preset())

	doc, v := s.Snapshot()
	assert.Equal(t, uint64(0), v)
	doc.Projects[0].Images[0] = "mutated"
	doc.Profile.Name = "mutated"

	current := s.Current()
	assert.Equal(t, "Ayub Shaban", current.Profile.Name)
	assert.Equal(t, "https://picsum.photos/seed/project1a/800/600", current.Projects[0].Images[0])
}

func TestStore_ApplyCommitsAndBumpsVersion(t *testing.T) {
	s := NewStore(Preset())

	got, err := s.Apply("edit", func(p Portfolio) (Portfolio, error) {
		return SetProfileField(p, FieldName, "A. Shaban")
	})
	require.NoError(t, err)
	assert.Equal(t, "A. Shaban", got.Profile.Name)
	assert.Equal(t, uint64(1), s.Version())
}

func TestStore_ApplyErrorLeavesDocument(t *testing.T) {
	s := NewStore(Preset())
	boom := errors.New("boom")

	_, err := s.Apply("edit", func(p Portfolio) (Portfolio, error) {
		p.Profile.Name = "half-applied"
		return p, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), s.Version())
	assert.Equal(t, "Ayub Shaban", s.Current().Profile.Name)
}

func TestStore_ApplyRejectsInvalidDocument(t *testing.T) {
	s := NewStore(Preset())

	_, err := s.Apply("edit", func(p Portfolio) (Portfolio, error) {
		p.Projects[1].ID = p.Projects[0].ID
		return p, nil
	})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, uint64(0), s.Version())
}

func TestStore_CommitIf(t *testing.T) {
	s := NewStore(Preset())
	doc, v := s.Snapshot()
	doc.Profile.Bio = "from assistant"

	require.NoError(t, s.Replace("edit", s.Current()))

	err := s.CommitIf("assistant", v, doc)
	require.ErrorIs(t, err, ErrVersionConflict)
	assert.NotEqual(t, "from assistant", s.Current().Profile.Bio)

	_, v = s.Snapshot()
	require.NoError(t, s.CommitIf("assistant", v, doc))
	assert.Equal(t, "from assistant", s.Current().Profile.Bio)
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore(Preset())
	ch, cancel := s.Subscribe()

	require.NoError(t, s.Replace("watch", Preset()))
	change := <-ch
	assert.Equal(t, Change{Version: 1, Source: "watch"}, change)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	require.NoError(t, s.Replace("edit", Preset()))
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := NewStore(Preset())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Apply("edit", func(p Portfolio) (Portfolio, error) {
				p, _ = AddResource(p)
				return p, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), s.Version())
	assert.Len(t, s.Current().Resources, 50)
}
