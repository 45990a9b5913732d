package migrations

import (
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(FS, "*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestEmbeddedMigrationsLoadAsSource(t *testing.T) {
	src, err := iofs.New(FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}
