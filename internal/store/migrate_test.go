// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-auth/gatehouse/pkg/errutil"
)

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	stepsErr       error
	steps          []int
	versionVal     uint
	versionErr     error
	dirty          bool
	forced         []int
	forceErr       error
	closeSourceErr error
	closeDBErr     error
}

func (m *mockMigrate) Up() error   { return m.upErr }
func (m *mockMigrate) Down() error { return m.downErr }
func (m *mockMigrate) Steps(n int) error {
	m.steps = append(m.steps, n)
	return m.stepsErr
}
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Force(v int) error {
	m.forced = append(m.forced, v)
	return m.forceErr
}
func (m *mockMigrate) Close() (error, error) { return m.closeSourceErr, m.closeDBErr }

func TestDriverURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/db":   "pgx5://u:p@localhost:5432/db",
		"postgresql://u:p@localhost:5432/db": "pgx5://u:p@localhost:5432/db",
		"pgx5://u:p@localhost:5432/db":       "pgx5://u:p@localhost:5432/db",
		"mysql://localhost/db":               "mysql://localhost/db",
	}
	for in, want := range tests {
		assert.Equal(t, want, driverURL(in), in)
	}
}

func TestNewMigrator_InvalidURL(t *testing.T) {
	for _, url := range []string{"invalid://url", "badscheme://localhost:5432/testdb"} {
		_, err := NewMigrator(url)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
	}
}

func TestNewMigrator_PostgresqlScheme(t *testing.T) {
	// Connection fails, but the scheme must be recognized.
	_, err := NewMigrator("postgresql://localhost:1/testdb?connect_timeout=1")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
	assert.NotContains(t, err.Error(), "unknown driver")
}

func TestMigrator_UpDown(t *testing.T) {
	tests := []struct {
		name     string
		mock     *mockMigrate
		run      func(*Migrator) error
		wantCode string
	}{
		{name: "up", mock: &mockMigrate{}, run: (*Migrator).Up},
		{name: "up no change", mock: &mockMigrate{upErr: migrate.ErrNoChange}, run: (*Migrator).Up},
		{name: "up error", mock: &mockMigrate{upErr: errors.New("database locked")}, run: (*Migrator).Up, wantCode: "MIGRATION_UP_FAILED"},
		{name: "down", mock: &mockMigrate{}, run: (*Migrator).Down},
		{name: "down no change", mock: &mockMigrate{downErr: migrate.ErrNoChange}, run: (*Migrator).Down},
		{name: "down error", mock: &mockMigrate{downErr: errors.New("constraint violation")}, run: (*Migrator).Down, wantCode: "MIGRATION_DOWN_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(&Migrator{m: tt.mock})
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestMigrator_Steps(t *testing.T) {
	t.Run("passes n through", func(t *testing.T) {
		mm := &mockMigrate{}
		require.NoError(t, (&Migrator{m: mm}).Steps(-1))
		assert.Equal(t, []int{-1}, mm.steps)
	})

	t.Run("zero is a no-op", func(t *testing.T) {
		mm := &mockMigrate{}
		require.NoError(t, (&Migrator{m: mm}).Steps(0))
		assert.Empty(t, mm.steps)
	})

	t.Run("no change is success", func(t *testing.T) {
		require.NoError(t, (&Migrator{m: &mockMigrate{stepsErr: migrate.ErrNoChange}}).Steps(2))
	})

	t.Run("error carries steps", func(t *testing.T) {
		err := (&Migrator{m: &mockMigrate{stepsErr: errors.New("boom")}}).Steps(2)
		errutil.AssertErrorCode(t, err, "MIGRATION_STEPS_FAILED")
		errutil.AssertErrorContext(t, err, "steps", 2)
	})
}

func TestMigrator_Version(t *testing.T) {
	t.Run("reports version and dirty", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 2, dirty: true}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), v)
		assert.True(t, dirty)
	})

	t.Run("empty database is version zero", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
		require.NoError(t, err)
		assert.Zero(t, v)
		assert.False(t, dirty)
	})

	t.Run("error", func(t *testing.T) {
		_, _, err := (&Migrator{m: &mockMigrate{versionErr: errors.New("connection lost")}}).Version()
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_Force(t *testing.T) {
	t.Run("forces version", func(t *testing.T) {
		mm := &mockMigrate{}
		require.NoError(t, (&Migrator{m: mm}).Force(2))
		assert.Equal(t, []int{2}, mm.forced)
	})

	t.Run("negative version rejected before the driver", func(t *testing.T) {
		mm := &mockMigrate{}
		err := (&Migrator{m: mm}).Force(-1)
		errutil.AssertErrorCode(t, err, "INVALID_VERSION")
		assert.Empty(t, mm.forced)
	})

	t.Run("driver error", func(t *testing.T) {
		err := (&Migrator{m: &mockMigrate{forceErr: errors.New("locked")}}).Force(1)
		errutil.AssertErrorCode(t, err, "MIGRATION_FORCE_FAILED")
		errutil.AssertErrorContext(t, err, "version", 1)
	})
}

func TestMigrator_Close(t *testing.T) {
	tests := []struct {
		name      string
		mock      *mockMigrate
		component string
	}{
		{name: "clean", mock: &mockMigrate{}},
		{name: "source", mock: &mockMigrate{closeSourceErr: errors.New("source close failed")}, component: "source"},
		{name: "database", mock: &mockMigrate{closeDBErr: errors.New("db close failed")}, component: "database"},
		{name: "both", mock: &mockMigrate{closeSourceErr: errors.New("source close failed"), closeDBErr: errors.New("db close failed")}, component: "both"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Migrator{m: tt.mock}).Close()
			if tt.component == "" {
				require.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
			errutil.AssertErrorContext(t, err, "component", tt.component)
		})
	}
}

func TestMigrator_Status(t *testing.T) {
	tests := []struct {
		name    string
		mock    *mockMigrate
		applied []uint
		pending []uint
	}{
		{name: "fresh database", mock: &mockMigrate{versionErr: migrate.ErrNilVersion}, pending: []uint{1, 2, 3}},
		{name: "partially migrated", mock: &mockMigrate{versionVal: 1}, applied: []uint{1}, pending: []uint{2, 3}},
		{name: "latest", mock: &mockMigrate{versionVal: 3}, applied: []uint{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := (&Migrator{m: tt.mock}).Status()
			require.NoError(t, err)
			assert.Equal(t, tt.applied, st.Applied)
			assert.Equal(t, tt.pending, st.Pending)
		})
	}

	t.Run("version error", func(t *testing.T) {
		_, err := (&Migrator{m: &mockMigrate{versionErr: errors.New("connection lost")}}).Status()
		errutil.AssertErrorContext(t, err, "operation", "migration status")
	})
}

func TestMigrationName(t *testing.T) {
	assert.Equal(t, "000001_create_users", MigrationName(1))
	assert.Equal(t, "000003_create_verification_codes", MigrationName(3))
	assert.Equal(t, "", MigrationName(999))
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(3), v)
}

func TestEmbeddedVersions_ReturnsSortedVersions(t *testing.T) {
	versions, err := embeddedVersions()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, versions)
}
