package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr   error
	steps   []int
	forced  []int
	version uint
	verErr  error
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Force(v int) error {
	f.forced = append(f.forced, v)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, false, f.verErr }

func TestRun_UpIsDefaultAndToleratesNoChange(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	require.NoError(t, run(&fakeMigrator{version: 1}, nil, logger))
	require.NoError(t, run(&fakeMigrator{upErr: migrate.ErrNoChange, version: 1}, []string{"up"}, logger))
	assert.Contains(t, buf.String(), "schema already up to date")

	err := run(&fakeMigrator{upErr: errors.New("syntax error")}, []string{"up"}, logger)
	assert.ErrorContains(t, err, "syntax error")
}

func TestRun_Down(t *testing.T) {
	m := &fakeMigrator{}
	require.NoError(t, run(m, []string{"down"}, logging.Default()))
	require.NoError(t, run(m, []string{"down", "2"}, logging.Default()))
	assert.Equal(t, []int{-1, -2}, m.steps)

	assert.Error(t, run(m, []string{"down", "0"}, logging.Default()))
	assert.Error(t, run(m, []string{"down", "all"}, logging.Default()))
}

func TestRun_Force(t *testing.T) {
	m := &fakeMigrator{}
	require.NoError(t, run(m, []string{"force", "1"}, logging.Default()))
	assert.Equal(t, []int{1}, m.forced)

	assert.Error(t, run(m, []string{"force"}, logging.Default()))
	assert.Error(t, run(m, []string{"force", "v1"}, logging.Default()))
}

func TestRun_VersionOnFreshDatabase(t *testing.T) {
	require.NoError(t, run(&fakeMigrator{verErr: migrate.ErrNilVersion}, []string{"version"}, logging.Default()))
	assert.ErrorContains(t, run(&fakeMigrator{}, []string{"redo"}, logging.Default()), "unknown command")
}
