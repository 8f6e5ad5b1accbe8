package placeholder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeValueFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestStoreSequentialRotation(t *testing.T) {
	dir := t.TempDir()
	writeValueFile(t, dir, "names.txt", "alice\nbob\ncharlie\n")
	store := NewStore(dir)

	var got []string
	for i := 0; i < 4; i++ {
		v, err := store.Next("names", RotationSequential)
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []string{"alice", "bob", "charlie", "alice"}, got)

	// The next full cycle repeats identically.
	for _, want := range []string{"bob", "charlie", "alice"} {
		v, err := store.Next("names", RotationSequential)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestStoreRandomRotation(t *testing.T) {
	dir := t.TempDir()
	writeValueFile(t, dir, "names.txt", "alice\nbob\ncharlie\n")
	store := NewStore(dir)

	members := map[string]bool{"alice": true, "bob": true, "charlie": true}
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		v, err := store.Next("names", RotationRandom)
		require.NoError(t, err)
		require.True(t, members[v], "value %q is not in the pool", v)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "all members should eventually be produced")
}

func TestStoreExactNameBeforeSuffix(t *testing.T) {
	dir := t.TempDir()
	writeValueFile(t, dir, "city", "amsterdam\n")
	writeValueFile(t, dir, "city.txt", "berlin\n")
	store := NewStore(dir)

	v, err := store.Next("city", RotationSequential)
	require.NoError(t, err)
	assert.Equal(t, "amsterdam", v)
}

func TestStoreSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	writeValueFile(t, dir, "items.txt", "# header\n\none\n  \n# two\nthree\n")
	store := NewStore(dir)

	v, err := store.Next("items", RotationSequential)
	require.NoError(t, err)
	assert.Equal(t, "one", v)
	v, err = store.Next("items", RotationSequential)
	require.NoError(t, err)
	assert.Equal(t, "three", v)
}

func TestStoreNotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Next("missing", RotationSequential)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
	assert.Contains(t, err.Error(), "missing")
}

func TestStoreEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeValueFile(t, dir, "blank.txt", "# only a comment\n\n")
	store := NewStore(dir)

	_, err := store.Next("blank", RotationSequential)
	var empty *EmptyError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "blank", empty.Name)
}
