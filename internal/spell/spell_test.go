package spell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hasssanezzz/bloomspell/internal/bloom"
	"github.com/stretchr/testify/require"
)

// exactSet records members verbatim so tests can see what was added.
type exactSet struct {
	mu      sync.Mutex
	members map[string]int
}

func newExactSet() *exactSet {
	return &exactSet{members: map[string]int{}}
}

func (s *exactSet) Add(member []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[string(member)]++
}

func (s *exactSet) Check(member []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[string(member)]
	return ok
}

func TestLoadTrimsTrailingWhitespace(t *testing.T) {
	set := newExactSet()
	l := &Loader{}
	n, err := l.Load(context.Background(), strings.NewReader("apple\r\nbanana  \n  cherry\t\n"), set)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, map[string]int{"apple": 1, "banana": 1, "  cherry": 1}, set.members)
}

func TestLoadConcurrentWorkers(t *testing.T) {
	var words strings.Builder
	for i := range 5000 {
		fmt.Fprintf(&words, "word%d\n", i)
	}

	set := newExactSet()
	l := &Loader{Workers: 8}
	n, err := l.Load(context.Background(), strings.NewReader(words.String()), set)
	require.NoError(t, err)
	require.Equal(t, 5000, n)
	require.Len(t, set.members, 5000)
	for i := range 5000 {
		require.Equal(t, 1, set.members[fmt.Sprintf("word%d", i)])
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set := newExactSet()
	l := &Loader{Workers: 2}
	n, err := l.Load(ctx, strings.NewReader("a\nb\nc\n"), set)
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, n)
	require.Empty(t, set.members)
}

func TestMisspelled(t *testing.T) {
	set := newExactSet()
	for _, w := range []string{"the", "quick", "brown", "fox"} {
		set.Add([]byte(w))
	}

	got, err := Misspelled(strings.NewReader("the quikc brown\n  fox jmups\tthe quikc\n"), set)
	require.NoError(t, err)
	require.Equal(t, []string{"quikc", "jmups", "quikc"}, got)

	got, err = Misspelled(strings.NewReader("   \n"), set)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSpellCheckWithFilter(t *testing.T) {
	f, err := bloom.New(bloom.DefaultSize)
	require.NoError(t, err)

	l := &Loader{Workers: 4}
	_, err = l.Load(context.Background(), strings.NewReader("hello\nworld\ngopher\n"), f)
	require.NoError(t, err)

	got, err := Misspelled(strings.NewReader("hello gopher world"), f)
	require.NoError(t, err)
	require.Empty(t, got)
	require.False(t, f.Check([]byte("wrold")))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644))

	set := newExactSet()
	n, err := (&Loader{}).LoadFile(context.Background(), path, set)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.True(t, set.Check([]byte("beta")))

	_, err = (&Loader{}).LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), set)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

type panicSet struct{}

func (panicSet) Add([]byte)        { panic("boom") }
func (panicSet) Check([]byte) bool { return false }

func TestLoadPropagatesPanic(t *testing.T) {
	var words strings.Builder
	for i := range 10000 {
		fmt.Fprintf(&words, "w%d\n", i)
	}
	l := &Loader{Workers: 2}
	require.Panics(t, func() {
		l.Load(context.Background(), strings.NewReader(words.String()), panicSet{})
	})
}
