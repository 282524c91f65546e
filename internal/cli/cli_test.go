package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

// fakePurgeService implements service.PurgeService with optional function
// fields. Unset methods return zero values.
type fakePurgeService struct {
	runBatchFn       func(ctx context.Context, limit uint64) (models.PurgeReport, error)
	previewFn        func(ctx context.Context, limit uint64) (models.Decision, error)
	restoreFn        func(ctx context.Context, userIDs []int64) (models.RestoreReport, error)
	previewRestoreFn func(ctx context.Context, userIDs []int64) (models.RestoreReport, error)
	validateFn       func(ctx context.Context, withSchema bool) error
	statusesFn       func(ctx context.Context, userIDs []int64) (map[int64][]models.StatusEntry, error)
}

func (f *fakePurgeService) FetchCandidates(context.Context, uint64) ([]int64, error) {
	return nil, nil
}

func (f *fakePurgeService) Decide(context.Context, []int64) (models.Decision, error) {
	return models.Decision{}, nil
}

func (f *fakePurgeService) Purge(context.Context, []int64) (models.PurgeReport, error) {
	return models.PurgeReport{}, nil
}

func (f *fakePurgeService) RunBatch(ctx context.Context, limit uint64) (models.PurgeReport, error) {
	if f.runBatchFn != nil {
		return f.runBatchFn(ctx, limit)
	}
	return models.PurgeReport{}, nil
}

func (f *fakePurgeService) Preview(ctx context.Context, limit uint64) (models.Decision, error) {
	if f.previewFn != nil {
		return f.previewFn(ctx, limit)
	}
	return models.Decision{}, nil
}

func (f *fakePurgeService) Restore(ctx context.Context, userIDs []int64) (models.RestoreReport, error) {
	if f.restoreFn != nil {
		return f.restoreFn(ctx, userIDs)
	}
	return models.RestoreReport{}, nil
}

func (f *fakePurgeService) PreviewRestore(ctx context.Context, userIDs []int64) (models.RestoreReport, error) {
	if f.previewRestoreFn != nil {
		return f.previewRestoreFn(ctx, userIDs)
	}
	return models.RestoreReport{}, nil
}

func (f *fakePurgeService) Validate(ctx context.Context, withSchema bool) error {
	if f.validateFn != nil {
		return f.validateFn(ctx, withSchema)
	}
	return nil
}

func (f *fakePurgeService) Statuses(ctx context.Context, userIDs []int64) (map[int64][]models.StatusEntry, error) {
	if f.statusesFn != nil {
		return f.statusesFn(ctx, userIDs)
	}
	return map[int64][]models.StatusEntry{}, nil
}

// fakeOpener hands out a runtime around svc. The configuration mirrors the
// overrides on top of a fixed batch limit.
type fakeOpener struct {
	svc       *fakePurgeService
	opened    int
	closed    int
	overrides config.StructuredConfig
}

func (o *fakeOpener) open(_ context.Context, overrides *config.StructuredConfig) (*Runtime, error) {
	o.opened++
	o.overrides = *overrides

	cfg := &config.StructuredConfig{
		Purge: config.Purge{
			BatchLimit: 500,
			MaxBatches: max(overrides.Purge.MaxBatches, 1),
			Interval:   overrides.Purge.Interval,
		},
		Registry: overrides.Registry,
	}
	return NewRuntime(cfg, o.svc, testclock.NewClock(time.Unix(1700000000, 0)), func() error {
		o.closed++
		return nil
	}), nil
}

func execute(t *testing.T, opener *fakeOpener, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(opener.open, logger.Nop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// ─────────────────────────────────────────────
// purge
// ─────────────────────────────────────────────

func TestPurge_DryRunListsUsers(t *testing.T) {
	svc := &fakePurgeService{
		previewFn: func(_ context.Context, limit uint64) (models.Decision, error) {
			assert.Equal(t, uint64(500), limit)
			return models.Decision{
				Purgeable: []int64{1, 3},
				Excluded:  []int64{2},
				BlockedBy: map[int64]string{2: "mod/forum"},
			}, nil
		},
		runBatchFn: func(context.Context, uint64) (models.PurgeReport, error) {
			t.Fatal("dry run must not purge")
			return models.PurgeReport{}, nil
		},
	}
	opener := &fakeOpener{svc: svc}

	out, err := execute(t, opener, "purge")
	require.NoError(t, err)
	assert.Equal(t, "The following users will be purged:\n1\n3\n"+
		"The following users have activity and will be kept:\n2 (mod/forum)\n", out)
	assert.Equal(t, 1, opener.closed)
}

func TestPurge_DryRunNothingToDo(t *testing.T) {
	opener := &fakeOpener{svc: &fakePurgeService{}}

	out, err := execute(t, opener, "purge")
	require.NoError(t, err)
	assert.Equal(t, "There are no users to purge.\n", out)
}

func TestPurge_RunBatches(t *testing.T) {
	calls := 0
	svc := &fakePurgeService{
		runBatchFn: func(context.Context, uint64) (models.PurgeReport, error) {
			calls++
			return models.PurgeReport{
				Candidates: []int64{int64(calls)},
				Purged:     []int64{int64(calls)},
				Failed:     map[int64]error{},
			}, nil
		},
	}
	opener := &fakeOpener{svc: svc}

	out, err := execute(t, opener, "purge", "--run", "--batches", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, opener.overrides.Purge.MaxBatches)
	assert.Contains(t, out, "Batch 1: 1 candidates, 1 purged, 0 kept, 0 failed\npurged 1\n")
	assert.Contains(t, out, "Batch 2: 1 candidates, 1 purged, 0 kept, 0 failed\npurged 2\n")
}

func TestPurge_RunWithFailuresExitsNonZero(t *testing.T) {
	svc := &fakePurgeService{
		runBatchFn: func(context.Context, uint64) (models.PurgeReport, error) {
			return models.PurgeReport{
				Candidates: []int64{1, 2},
				Purged:     []int64{1},
				Failed:     map[int64]error{2: errors.New("record was not found")},
			}, nil
		},
	}

	out, err := execute(t, &fakeOpener{svc: svc}, "purge", "-r")
	assert.ErrorIs(t, err, ErrPurgeFailed)
	assert.Contains(t, out, "failed 2: record was not found\n")
}

func TestPurge_RunNothingToDo(t *testing.T) {
	out, err := execute(t, &fakeOpener{svc: &fakePurgeService{}}, "purge", "--run")
	require.NoError(t, err)
	assert.Equal(t, "There are no users to purge.\n", out)
}

func TestPurge_ValidationFailureStopsTheRun(t *testing.T) {
	errInvalid := errors.New("duplicate alias")
	svc := &fakePurgeService{
		validateFn: func(_ context.Context, withSchema bool) error {
			assert.True(t, withSchema)
			return errInvalid
		},
		runBatchFn: func(context.Context, uint64) (models.PurgeReport, error) {
			t.Fatal("purge must not run with an invalid registry")
			return models.PurgeReport{}, nil
		},
	}
	opener := &fakeOpener{svc: svc}

	_, err := execute(t, opener, "purge", "--run")
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, 1, opener.closed)
}

func TestPurge_SkipSchemaValidation(t *testing.T) {
	var schemaChecked bool
	svc := &fakePurgeService{
		validateFn: func(_ context.Context, withSchema bool) error {
			schemaChecked = withSchema
			return nil
		},
	}

	_, err := execute(t, &fakeOpener{svc: svc}, "purge", "--skip-schema-validation")
	require.NoError(t, err)
	assert.False(t, schemaChecked)
}

func TestPurge_UnknownFlag(t *testing.T) {
	opener := &fakeOpener{svc: &fakePurgeService{}}

	_, err := execute(t, opener, "purge", "--force")
	assert.Error(t, err)
	assert.Zero(t, opener.opened)
}

// ─────────────────────────────────────────────
// restore
// ─────────────────────────────────────────────

func TestRestore_NoIDs(t *testing.T) {
	opener := &fakeOpener{svc: &fakePurgeService{}}

	out, err := execute(t, opener, "restore", "--run")
	require.NoError(t, err)
	assert.Equal(t, "There are no users to restore.\n", out)
	assert.Zero(t, opener.opened)
}

func TestRestore_EmptyIDs(t *testing.T) {
	for _, args := range [][]string{
		{"restore", "--ids="},
		{"restore", "--ids=", "--run"},
		{"restore", "--ids", ",,", "--run"},
	} {
		opener := &fakeOpener{svc: &fakePurgeService{}}

		out, err := execute(t, opener, args...)
		require.NoError(t, err, args)
		assert.Equal(t, "There are no users to restore.\n", out, args)
		assert.Zero(t, opener.opened, args)
	}
}

func TestRestore_InvalidID(t *testing.T) {
	opener := &fakeOpener{svc: &fakePurgeService{}}

	_, err := execute(t, opener, "restore", "--ids=5,0")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	assert.Zero(t, opener.opened)
}

func TestRestore_DryRun(t *testing.T) {
	svc := &fakePurgeService{
		previewRestoreFn: func(_ context.Context, userIDs []int64) (models.RestoreReport, error) {
			assert.Equal(t, []int64{123, 456, 789}, userIDs)
			return models.RestoreReport{
				Restored:       []int64{123, 456},
				AlreadyPresent: []int64{},
				Skipped:        []int64{789},
			}, nil
		},
		restoreFn: func(context.Context, []int64) (models.RestoreReport, error) {
			t.Fatal("dry run must not restore")
			return models.RestoreReport{}, nil
		},
	}

	out, err := execute(t, &fakeOpener{svc: svc}, "restore", "--ids=789,123,456,123")
	require.NoError(t, err)
	assert.Equal(t, "The following users will be restored:\n123\n456\n"+
		"No backup was found for the following users:\n789\n", out)
}

func TestRestore_Run(t *testing.T) {
	svc := &fakePurgeService{
		restoreFn: func(_ context.Context, userIDs []int64) (models.RestoreReport, error) {
			assert.Equal(t, []int64{1, 2}, userIDs)
			return models.RestoreReport{Restored: []int64{1}, AlreadyPresent: []int64{2}}, nil
		},
	}

	out, err := execute(t, &fakeOpener{svc: svc}, "restore", "--ids", "2,1", "--run")
	require.NoError(t, err)
	assert.Equal(t, "restored 1\nalready present 2\n", out)
}

func TestRestore_RunWithFailures(t *testing.T) {
	svc := &fakePurgeService{
		restoreFn: func(context.Context, []int64) (models.RestoreReport, error) {
			return models.RestoreReport{Failed: map[int64]error{1: errors.New("insert failed")}}, nil
		},
	}

	out, err := execute(t, &fakeOpener{svc: svc}, "restore", "--ids=1", "-r")
	assert.ErrorIs(t, err, ErrRestoreFailed)
	assert.Equal(t, "failed 1: insert failed\n", out)
}

// ─────────────────────────────────────────────
// validate
// ─────────────────────────────────────────────

func TestValidate(t *testing.T) {
	var calls []bool
	svc := &fakePurgeService{
		validateFn: func(_ context.Context, withSchema bool) error {
			calls = append(calls, withSchema)
			return nil
		},
	}

	out, err := execute(t, &fakeOpener{svc: svc}, "validate")
	require.NoError(t, err)
	assert.Equal(t, "Registry is valid.\n", out)

	_, err = execute(t, &fakeOpener{svc: svc}, "validate", "--offline")
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, calls)
}

func TestValidate_Fails(t *testing.T) {
	errInvalid := errors.New("unknown table")
	svc := &fakePurgeService{
		validateFn: func(context.Context, bool) error { return errInvalid },
	}

	out, err := execute(t, &fakeOpener{svc: svc}, "validate")
	assert.ErrorIs(t, err, errInvalid)
	assert.Empty(t, out)
}

// ─────────────────────────────────────────────
// status
// ─────────────────────────────────────────────

func TestStatus(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakePurgeService{
		statusesFn: func(_ context.Context, userIDs []int64) (map[int64][]models.StatusEntry, error) {
			assert.Equal(t, []int64{7, 8}, userIDs)
			return map[int64][]models.StatusEntry{
				7: {
					{UserID: 7, Status: models.StatusDeleted, Timestamp: at},
					{UserID: 7, Status: models.StatusRestored, Timestamp: at.Add(time.Hour)},
				},
				8: {},
			}, nil
		},
	}
	opener := &fakeOpener{svc: svc}

	out, err := execute(t, opener, "status", "--ids=8,7")
	require.NoError(t, err)
	assert.Equal(t, "7 deleted 2026-03-01T12:00:00Z\n"+
		"7 restored 2026-03-01T13:00:00Z\n"+
		"8 has no ledger entries\n", out)
	assert.Equal(t, 1, opener.closed)
}

func TestStatus_NoIDs(t *testing.T) {
	opener := &fakeOpener{svc: &fakePurgeService{}}

	out, err := execute(t, opener, "status", "--ids=")
	require.NoError(t, err)
	assert.Equal(t, "There are no users to show.\n", out)
	assert.Zero(t, opener.opened)
}

func TestStatus_Fails(t *testing.T) {
	errLedger := errors.New("ledger unavailable")
	svc := &fakePurgeService{
		statusesFn: func(context.Context, []int64) (map[int64][]models.StatusEntry, error) {
			return nil, errLedger
		},
	}

	_, err := execute(t, &fakeOpener{svc: svc}, "status", "--ids=1")
	assert.ErrorIs(t, err, errLedger)
}

// ─────────────────────────────────────────────
// help and registry
// ─────────────────────────────────────────────

func TestHelp_NamesTablesCreatedOnConnect(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"purge", "--help"}, {"validate", "--help"}} {
		out, err := execute(t, &fakeOpener{svc: &fakePurgeService{}}, args...)
		require.NoError(t, err, args)
		assert.Contains(t, out, "ledger tables", args)
	}
}

func TestLoadRegistry_TablePrefix(t *testing.T) {
	reg, err := loadRegistry(config.Registry{TablePrefix: "mdl_"})
	require.NoError(t, err)

	descriptors := reg.Descriptors()
	require.NotEmpty(t, descriptors)
	for _, d := range descriptors {
		assert.True(t, strings.HasPrefix(d.Table, "mdl_"), d.Table)
	}
}

func TestParseUserIDs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "sorted and deduplicated", raw: "3,1,3,2,1", want: []int64{1, 2, 3}},
		{name: "empty", raw: "", want: nil},
		{name: "empty elements", raw: ",5,, 4 ,", want: []int64{4, 5}},
		{name: "only commas", raw: ",,", want: nil},
		{name: "negative", raw: "-4", wantErr: true},
		{name: "zero", raw: "1,0", wantErr: true},
		{name: "not a number", raw: "1,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseUserIDs(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUserID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}
