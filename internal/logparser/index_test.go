package logparser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndex(t *testing.T) {
	data := "header\r\n" +
		"CUSTOMER TRANSACTION 11 Finalized\r\n" +
		"03/02/15 08:15:00\r\n" +
		"CUSTOMER TRANSACTION 12 Finalized\n" +
		"no newline at end"

	ix := NewIndex([]byte(data))

	require.Equal(t, 5, ix.Len())
	assert.Equal(t, []int{1, 3}, ix.Markers())
	assert.Equal(t, 0, ix.Offset(0))
	assert.Equal(t, len("header\r\n"), ix.Offset(1))

	line, ok := ix.Line(1)
	require.True(t, ok)
	assert.Equal(t, "CUSTOMER TRANSACTION 11 Finalized", line)

	line, ok = ix.Line(4)
	require.True(t, ok)
	assert.Equal(t, "no newline at end", line)

	_, ok = ix.Line(5)
	assert.False(t, ok)
	_, ok = ix.Line(-1)
	assert.False(t, ok)
}

func TestNewIndex_Empty(t *testing.T) {
	ix := NewIndex(nil)
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.Markers())
}

func TestNewIndex_MarkerMustStartLine(t *testing.T) {
	ix := NewIndex([]byte("  CUSTOMER TRANSACTION 11 Finalized\nCUSTOMER TRANSACTION 12 Pending\n"))
	assert.Empty(t, ix.Markers())
}

func TestIndex_Lines(t *testing.T) {
	ix := NewIndex([]byte("a\nb\nc\nd\n"))

	var got []string
	for n, l := range ix.Lines(1, 10) {
		got = append(got, l)
		assert.Equal(t, "abcd"[n:n+1], l)
	}
	assert.Equal(t, []string{"b", "c", "d"}, got)

	got = got[:0]
	for _, l := range ix.Lines(-3, 2) {
		got = append(got, l)
		if l == "a" {
			break
		}
	}
	assert.Equal(t, []string{"a"}, got)

	for range ix.Lines(3, 3) {
		t.Fatal("empty range yielded a line")
	}
}

func TestIndex_Window(t *testing.T) {
	ix := NewIndex([]byte(journal(
		"CUSTOMER TRANSACTION 1 Finalized",
		"x",
		"CUSTOMER TRANSACTION 2 Finalized",
		"y",
		"z",
	)))
	assert.Equal(t, 2, ix.window(0))
	assert.Equal(t, 5, ix.window(1))
}

func TestBuild_ReadError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := Build(iotest.ErrReader(boom))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.ErrorIs(t, err, boom)
}

func TestBuild(t *testing.T) {
	ix, err := Build(strings.NewReader(journal("CUSTOMER TRANSACTION 7 Finalized")))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ix.Markers())
}
