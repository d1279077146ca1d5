package threadname

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threadname/internal/goid"
)

func inGoroutine(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	<-done
}

func TestRenameSetsInternalNameUntruncated(t *testing.T) {
	names := []string{
		"a",
		"worker-0",
		strings.Repeat("x", 200),
		"ποτάμι-νήμα-δεκαέξι",
		"",
	}
	for _, name := range names {
		inGoroutine(func() {
			Rename(name)
			assert.Equal(t, name, GetInternalName())
		})
	}
}

func TestInternalNameDefaultsToEmpty(t *testing.T) {
	inGoroutine(func() {
		assert.Equal(t, "", GetInternalName())
	})
}

func TestSetInternalNameOverwrites(t *testing.T) {
	inGoroutine(func() {
		SetInternalName("first")
		SetInternalName("second")
		assert.Equal(t, "second", GetInternalName())
		ClearInternalName()
		assert.Equal(t, "", GetInternalName())
	})
}

func TestInternalNameIsPerGoroutine(t *testing.T) {
	renamed := make(chan struct{})
	checked := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		SetInternalName("B")
		<-renamed
		assert.Equal(t, "B", GetInternalName())
		close(checked)
	}()
	go func() {
		defer wg.Done()
		Rename("X")
		close(renamed)
		<-checked
		assert.Equal(t, "X", GetInternalName())
	}()
	wg.Wait()
}

func TestTruncateOSName(t *testing.T) {
	assert.Equal(t, "short", truncateOSName("short"))
	assert.Equal(t, "0123456789abcde", truncateOSName("0123456789abcdefghij"))
	assert.Equal(t, "pre", truncateOSName("pre\x00post"))
	require.Len(t, truncateOSName(strings.Repeat("z", 64)), MaxOSNameLen)
}

func TestTruncateOSNameKeepsWholeRunes(t *testing.T) {
	cases := []struct{ in, want string }{
		{"abcdefghijklmnπ", "abcdefghijklmn"},
		{"abcdefghijklm€x", "abcdefghijklm"},
		{"abcdefghijklmπx", "abcdefghijklmπ"},
		{"ποτάμι-νήμα", "ποτάμι-ν"},
		{"abcdefghijk😀zz", "abcdefghijk😀"},
		{"abcdefghijkl😀", "abcdefghijkl"},
	}
	for _, c := range cases {
		got := truncateOSName(c.in)
		assert.Equal(t, c.want, got, c.in)
		assert.True(t, utf8.ValidString(got), c.in)
		assert.LessOrEqual(t, len(got), MaxOSNameLen, c.in)
	}
}

func hasInternalName(id uint64) bool {
	_, ok := internalNames.Load(id)
	return ok
}

func TestClearInternalNameDropsEntry(t *testing.T) {
	var id uint64
	inGoroutine(func() {
		id = goid.Get()
		Rename("short-lived")
		assert.True(t, hasInternalName(id))
		ClearInternalName()
	})
	assert.False(t, hasInternalName(id))
}

func TestWithNameForgetsNameOnReturn(t *testing.T) {
	const n = 200
	ids := make([]uint64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			WithName("short-lived", func() {
				ids[i] = goid.Get()
				assert.Equal(t, "short-lived", GetInternalName())
			})
			assert.Equal(t, "", GetInternalName())
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.False(t, hasInternalName(id), "goroutine %d kept its name", id)
	}
}

func TestWithNameForgetsNameOnPanic(t *testing.T) {
	var id uint64
	inGoroutine(func() {
		id = goid.Get()
		assert.Panics(t, func() {
			WithName("doomed", func() { panic("boom") })
		})
		assert.Equal(t, "", GetInternalName())
	})
	assert.False(t, hasInternalName(id))
}

func TestSessionReleaseLetsLateTasksThrough(t *testing.T) {
	s := newRenameSession()
	s.release()

	done := make(chan struct{})
	go func() {
		s.checkIn()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, s.doneCount())
}
