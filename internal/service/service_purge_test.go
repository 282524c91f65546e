package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/mock"
	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/store"
	"github.com/MKhiriev/go-purge-users/models"
)

// ─────────────────────────────────────────────
// Fake: Eliminator
// ─────────────────────────────────────────────

type fakeEliminator struct {
	narrowFn func(ctx context.Context, candidates []int64, groups []registry.Group) (models.Elimination, error)
}

func (f *fakeEliminator) Narrow(ctx context.Context, candidates []int64, groups []registry.Group) (models.Elimination, error) {
	if f.narrowFn != nil {
		return f.narrowFn(ctx, candidates, groups)
	}
	return models.Elimination{Remaining: candidates, BlockedBy: map[int64]string{}}, nil
}

// ─────────────────────────────────────────────
// Helper
// ─────────────────────────────────────────────

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type purgeMocks struct {
	users   *mock.MockUserRepository
	records *mock.MockRecordRepository
	backups *mock.MockBackupRepository
	ledger  *mock.MockLedgerRepository
	plugins *mock.MockPluginRepository
	schema  *mock.MockSchemaRepository
}

func testRegistry() registry.Registry {
	return registry.New(
		registry.Group{Component: "mod", Module: "forum", Descriptors: []registry.Descriptor{
			{Table: "forum_posts", Alias: "fp", Field: "userid", Purpose: registry.PurposeCheck},
		}},
		registry.Group{Component: "user", Module: registry.Subsystem, Descriptors: []registry.Descriptor{
			{Table: "user_preferences", Alias: "upr", Field: "userid", Purpose: registry.PurposeArchive},
		}},
	)
}

func newTestPurgeService(t *testing.T, ctrl *gomock.Controller, eliminator Eliminator) (*purgeService, purgeMocks) {
	t.Helper()
	m := purgeMocks{
		users:   mock.NewMockUserRepository(ctrl),
		records: mock.NewMockRecordRepository(ctrl),
		backups: mock.NewMockBackupRepository(ctrl),
		ledger:  mock.NewMockLedgerRepository(ctrl),
		plugins: mock.NewMockPluginRepository(ctrl),
		schema:  mock.NewMockSchemaRepository(ctrl),
	}
	storages := &store.Storages{
		UserRepository:   m.users,
		RecordRepository: m.records,
		BackupRepository: m.backups,
		LedgerRepository: m.ledger,
		PluginRepository: m.plugins,
		SchemaRepository: m.schema,
	}
	if eliminator == nil {
		eliminator = &fakeEliminator{}
	}

	identity := config.Identity{Table: "users", DeletedColumn: "deleted"}
	svc := NewPurgeService(storages, eliminator, testRegistry(), identity, testclock.NewClock(testNow), logger.Nop()).(*purgeService)
	return svc, m
}

func snapshot(id int64) models.Snapshot {
	return models.Snapshot{{Name: "id", Value: id}, {Name: "username", Value: "user"}}
}

// ─────────────────────────────────────────────
// FetchCandidates
// ─────────────────────────────────────────────

func TestPurgeService_FetchCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.users.EXPECT().FindPurgeCandidates(gomock.Any(), uint64(500)).Return([]int64{1, 2}, nil)

	ids, err := svc.FetchCandidates(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestPurgeService_FetchCandidates_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.users.EXPECT().FindPurgeCandidates(gomock.Any(), gomock.Any()).Return(nil, store.ErrTransient)

	_, err := svc.FetchCandidates(context.Background(), 500)
	assert.ErrorIs(t, err, ErrFetchingCandidates)
	assert.ErrorIs(t, err, store.ErrTransient)
}

// ─────────────────────────────────────────────
// Decide
// ─────────────────────────────────────────────

func TestPurgeService_Decide_RecordsNoPurgeForExcluded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	elim := &fakeEliminator{narrowFn: func(_ context.Context, candidates []int64, groups []registry.Group) (models.Elimination, error) {
		assert.Equal(t, []int64{1, 2, 3}, candidates)
		assert.Len(t, groups, 2)
		return models.Elimination{Remaining: []int64{1, 3}, BlockedBy: map[int64]string{2: "mod/forum"}}, nil
	}}
	svc, m := newTestPurgeService(t, ctrl, elim)

	m.plugins.EXPECT().IsInstalled(gomock.Any(), "mod_forum").Return(true, nil)
	m.ledger.EXPECT().RecordStatus(gomock.Any(), int64(2), models.StatusNoPurge, testNow).Return(nil)

	decision, err := svc.Decide(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, decision.Purgeable)
	assert.Equal(t, []int64{2}, decision.Excluded)
	assert.Equal(t, "mod/forum", decision.BlockedBy[2])
	assert.Empty(t, decision.Failed)
}

func TestPurgeService_Decide_UninstalledPluginIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	elim := &fakeEliminator{narrowFn: func(_ context.Context, candidates []int64, groups []registry.Group) (models.Elimination, error) {
		require.Len(t, groups, 1)
		assert.Equal(t, "user/subsystem", groups[0].Key())
		return models.Elimination{Remaining: candidates, BlockedBy: map[int64]string{}}, nil
	}}
	svc, m := newTestPurgeService(t, ctrl, elim)

	m.plugins.EXPECT().IsInstalled(gomock.Any(), "mod_forum").Return(false, nil)

	decision, err := svc.Decide(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, decision.Purgeable)
}

func TestPurgeService_Decide_LedgerFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	elim := &fakeEliminator{narrowFn: func(context.Context, []int64, []registry.Group) (models.Elimination, error) {
		return models.Elimination{BlockedBy: map[int64]string{1: "mod/forum", 2: "mod/forum"}}, nil
	}}
	svc, m := newTestPurgeService(t, ctrl, elim)

	errDB := errors.New("insert failed")
	m.plugins.EXPECT().IsInstalled(gomock.Any(), gomock.Any()).Return(true, nil)
	m.ledger.EXPECT().RecordStatus(gomock.Any(), int64(1), models.StatusNoPurge, testNow).Return(errDB)
	m.ledger.EXPECT().RecordStatus(gomock.Any(), int64(2), models.StatusNoPurge, testNow).Return(nil)

	decision, err := svc.Decide(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, decision.Excluded)
	assert.ErrorIs(t, decision.Failed[1], errDB)
	assert.NotContains(t, decision.Failed, int64(2))
}

func TestPurgeService_Decide_PluginCheckError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.plugins.EXPECT().IsInstalled(gomock.Any(), gomock.Any()).Return(false, store.ErrTransient)

	_, err := svc.Decide(context.Background(), []int64{1})
	assert.ErrorIs(t, err, ErrResolvingRegistry)
	assert.ErrorIs(t, err, store.ErrTransient)
}

// ─────────────────────────────────────────────
// Purge
// ─────────────────────────────────────────────

func TestPurgeService_Purge_BackupBeforeLogBeforeDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	m.plugins.EXPECT().IsInstalled(gomock.Any(), "mod_forum").Return(true, nil)

	pref := models.Snapshot{{Name: "id", Value: int64(70)}, {Name: "userid", Value: int64(7)}}

	gomock.InOrder(
		m.records.EXPECT().GetRecord(ctx, "users", int64(7)).Return(snapshot(7), nil),
		m.backups.EXPECT().SaveBackup(ctx, models.Backup{
			Table: "users", RecordID: 7, UserID: 7, Timestamp: testNow, Record: snapshot(7),
		}).Return(nil),
		m.records.EXPECT().FindRecordIDs(ctx, "user_preferences", "userid", int64(7)).Return([]int64{70}, nil),
		m.records.EXPECT().GetRecord(ctx, "user_preferences", int64(70)).Return(pref, nil),
		m.backups.EXPECT().SaveBackup(ctx, models.Backup{
			Table: "user_preferences", RecordID: 70, UserID: 7, Timestamp: testNow, Record: pref,
		}).Return(nil),
		m.ledger.EXPECT().RecordStatus(ctx, int64(7), models.StatusDeleted, testNow).Return(nil),
		m.records.EXPECT().DeleteRecord(ctx, "user_preferences", int64(70)).Return(nil),
		m.records.EXPECT().DeleteRecord(ctx, "users", int64(7)).Return(nil),
	)

	report, err := svc.Purge(ctx, []int64{7})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, report.Purged)
	assert.False(t, report.HasFailures())
}

func TestPurgeService_Purge_MissingRecordIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	m.plugins.EXPECT().IsInstalled(gomock.Any(), gomock.Any()).Return(false, nil)

	// user 1 vanished: nothing is written for it
	m.records.EXPECT().GetRecord(ctx, "users", int64(1)).Return(nil, store.ErrRecordNotFound)

	m.records.EXPECT().GetRecord(ctx, "users", int64(2)).Return(snapshot(2), nil)
	m.backups.EXPECT().SaveBackup(ctx, gomock.Any()).Return(nil)
	m.records.EXPECT().FindRecordIDs(ctx, "user_preferences", "userid", int64(2)).Return(nil, nil)
	m.ledger.EXPECT().RecordStatus(ctx, int64(2), models.StatusDeleted, testNow).Return(nil)
	m.records.EXPECT().DeleteRecord(ctx, "users", int64(2)).Return(nil)

	report, err := svc.Purge(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, report.Purged)
	require.Contains(t, report.Failed, int64(1))
	assert.ErrorIs(t, report.Failed[1], store.ErrRecordNotFound)
}

func TestPurgeService_Purge_BackupFailureKeepsRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	m.plugins.EXPECT().IsInstalled(gomock.Any(), gomock.Any()).Return(false, nil)

	m.records.EXPECT().GetRecord(ctx, "users", int64(3)).Return(snapshot(3), nil)
	m.backups.EXPECT().SaveBackup(ctx, gomock.Any()).Return(store.ErrExecutingStatement)
	// no ledger write, no delete

	report, err := svc.Purge(ctx, []int64{3})
	require.NoError(t, err)
	assert.Empty(t, report.Purged)
	assert.ErrorIs(t, report.Failed[3], store.ErrExecutingStatement)
}

func TestPurgeService_Purge_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.plugins.EXPECT().IsInstalled(gomock.Any(), gomock.Any()).Return(false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	groups, err := svc.resolve(ctx)
	require.NoError(t, err)
	cancel()

	report, err := svc.purge(ctx, []int64{1, 2}, groups)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Purged)
}

// ─────────────────────────────────────────────
// RunBatch / Preview
// ─────────────────────────────────────────────

func TestPurgeService_RunBatch_NoCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.users.EXPECT().FindPurgeCandidates(gomock.Any(), uint64(10)).Return([]int64{}, nil)

	report, err := svc.RunBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, report.Candidates)
	assert.Empty(t, report.Purged)
}

func TestPurgeService_RunBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	elim := &fakeEliminator{narrowFn: func(context.Context, []int64, []registry.Group) (models.Elimination, error) {
		return models.Elimination{Remaining: []int64{1}, BlockedBy: map[int64]string{2: "mod/forum"}}, nil
	}}
	svc, m := newTestPurgeService(t, ctrl, elim)

	m.users.EXPECT().FindPurgeCandidates(gomock.Any(), uint64(10)).Return([]int64{1, 2}, nil)
	m.plugins.EXPECT().IsInstalled(gomock.Any(), "mod_forum").Return(true, nil).Times(1)
	m.ledger.EXPECT().RecordStatus(gomock.Any(), int64(2), models.StatusNoPurge, testNow).Return(nil)

	m.records.EXPECT().GetRecord(gomock.Any(), "users", int64(1)).Return(snapshot(1), nil)
	m.backups.EXPECT().SaveBackup(gomock.Any(), gomock.Any()).Return(nil)
	m.records.EXPECT().FindRecordIDs(gomock.Any(), "user_preferences", "userid", int64(1)).Return(nil, nil)
	m.ledger.EXPECT().RecordStatus(gomock.Any(), int64(1), models.StatusDeleted, testNow).Return(nil)
	m.records.EXPECT().DeleteRecord(gomock.Any(), "users", int64(1)).Return(nil)

	report, err := svc.RunBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, report.Candidates)
	assert.Equal(t, []int64{1}, report.Purged)
	assert.Equal(t, []int64{2}, report.Excluded)
	assert.Equal(t, "mod/forum", report.BlockedBy[2])
}

func TestPurgeService_Preview_WritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	elim := &fakeEliminator{narrowFn: func(context.Context, []int64, []registry.Group) (models.Elimination, error) {
		return models.Elimination{Remaining: []int64{4}, BlockedBy: map[int64]string{5: "mod/forum"}}, nil
	}}
	svc, m := newTestPurgeService(t, ctrl, elim)

	m.users.EXPECT().FindPurgeCandidates(gomock.Any(), uint64(10)).Return([]int64{4, 5}, nil)
	m.plugins.EXPECT().IsInstalled(gomock.Any(), gomock.Any()).Return(true, nil)

	decision, err := svc.Preview(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, decision.Purgeable)
	assert.Equal(t, []int64{5}, decision.Excluded)
}

// ─────────────────────────────────────────────
// Restore
// ─────────────────────────────────────────────

func TestPurgeService_Restore_NoBackupIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.backups.EXPECT().GetBackup(gomock.Any(), "users", int64(9)).Return(models.Backup{}, store.ErrBackupNotFound)

	report, err := svc.Restore(context.Background(), []int64{9})
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, report.Skipped)
	assert.Empty(t, report.Restored)
	assert.False(t, report.HasFailures())
}

func TestPurgeService_Restore_IdentityFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	identity := models.Backup{Table: "users", RecordID: 7, UserID: 7, Record: snapshot(7)}
	pref := models.Backup{Table: "user_preferences", RecordID: 70, UserID: 7, Record: snapshot(70)}

	gomock.InOrder(
		m.backups.EXPECT().GetBackup(ctx, "users", int64(7)).Return(identity, nil),
		m.records.EXPECT().RecordExists(ctx, "users", int64(7)).Return(false, nil),
		m.records.EXPECT().InsertRecord(ctx, "users", snapshot(7)).Return(nil),
		m.backups.EXPECT().GetUserBackups(ctx, int64(7)).Return([]models.Backup{pref, identity}, nil),
		m.records.EXPECT().RecordExists(ctx, "user_preferences", int64(70)).Return(false, nil),
		m.records.EXPECT().InsertRecord(ctx, "user_preferences", snapshot(70)).Return(nil),
		m.ledger.EXPECT().RecordStatus(ctx, int64(7), models.StatusRestored, testNow).Return(nil),
	)

	report, err := svc.Restore(ctx, []int64{7})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, report.Restored)
}

func TestPurgeService_Restore_AlreadyPresent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	identity := models.Backup{Table: "users", RecordID: 7, UserID: 7, Record: snapshot(7)}
	pref := models.Backup{Table: "user_preferences", RecordID: 70, UserID: 7, Record: snapshot(70)}

	m.backups.EXPECT().GetBackup(ctx, "users", int64(7)).Return(identity, nil)
	m.records.EXPECT().RecordExists(ctx, "users", int64(7)).Return(true, nil)
	m.backups.EXPECT().GetUserBackups(ctx, int64(7)).Return([]models.Backup{identity, pref}, nil)
	m.records.EXPECT().RecordExists(ctx, "user_preferences", int64(70)).Return(true, nil)
	m.ledger.EXPECT().RecordStatus(ctx, int64(7), models.StatusRestored, testNow).Return(nil)

	report, err := svc.Restore(ctx, []int64{7})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, report.AlreadyPresent)
	assert.Empty(t, report.Restored)
}

func TestPurgeService_Restore_InsertFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	identity := models.Backup{Table: "users", RecordID: 7, UserID: 7, Record: snapshot(7)}

	m.backups.EXPECT().GetBackup(ctx, "users", int64(7)).Return(identity, nil)
	m.records.EXPECT().RecordExists(ctx, "users", int64(7)).Return(false, nil)
	m.records.EXPECT().InsertRecord(ctx, "users", snapshot(7)).Return(store.ErrExecutingStatement)

	report, err := svc.Restore(ctx, []int64{7})
	require.NoError(t, err)
	assert.True(t, report.HasFailures())
	assert.ErrorIs(t, report.Failed[7], store.ErrExecutingStatement)
}

func TestPurgeService_PreviewRestore_WritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	m.backups.EXPECT().GetBackup(ctx, "users", int64(7)).Return(models.Backup{Table: "users", RecordID: 7, UserID: 7, Record: snapshot(7)}, nil)
	m.records.EXPECT().RecordExists(ctx, "users", int64(7)).Return(false, nil)
	m.backups.EXPECT().GetBackup(ctx, "users", int64(8)).Return(models.Backup{}, store.ErrBackupNotFound)

	report, err := svc.PreviewRestore(ctx, []int64{8, 7, 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, report.Restored)
	assert.Equal(t, []int64{8}, report.Skipped)
}

func TestPurgeService_Restore_BackupMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	m.backups.EXPECT().GetBackup(ctx, "users", int64(7)).Return(models.Backup{Table: "users", RecordID: 7, UserID: 7, Record: snapshot(8)}, nil)
	m.backups.EXPECT().GetBackup(ctx, "users", int64(9)).Return(models.Backup{Table: "users", RecordID: 9, UserID: 9,
		Record: models.Snapshot{{Name: "username", Value: "user"}}}, nil)

	report, err := svc.Restore(ctx, []int64{7, 9})
	require.NoError(t, err)
	assert.Empty(t, report.Restored)
	assert.ErrorIs(t, report.Failed[7], ErrBackupMismatch)
	assert.ErrorIs(t, report.Failed[9], ErrBackupMismatch)
	assert.ErrorIs(t, report.Failed[9], models.ErrFieldNotFound)
}

func TestPurgeService_Restore_ArchivedRowMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	identity := models.Backup{Table: "users", RecordID: 7, UserID: 7, Record: snapshot(7)}
	pref := models.Backup{Table: "user_preferences", RecordID: 70, UserID: 7, Record: snapshot(71)}

	m.backups.EXPECT().GetBackup(ctx, "users", int64(7)).Return(identity, nil)
	m.records.EXPECT().RecordExists(ctx, "users", int64(7)).Return(false, nil)
	m.records.EXPECT().InsertRecord(ctx, "users", snapshot(7)).Return(nil)
	m.backups.EXPECT().GetUserBackups(ctx, int64(7)).Return([]models.Backup{identity, pref}, nil)

	report, err := svc.Restore(ctx, []int64{7})
	require.NoError(t, err)
	assert.ErrorIs(t, report.Failed[7], ErrBackupMismatch)
}

// ─────────────────────────────────────────────
// Statuses
// ─────────────────────────────────────────────

func TestPurgeService_Statuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	ctx := context.Background()
	deleted := models.StatusEntry{UserID: 7, Status: models.StatusDeleted, Timestamp: testNow}
	m.ledger.EXPECT().GetStatuses(ctx, int64(7)).Return([]models.StatusEntry{deleted}, nil)
	m.ledger.EXPECT().GetStatuses(ctx, int64(8)).Return(nil, nil)

	statuses, err := svc.Statuses(ctx, []int64{8, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, map[int64][]models.StatusEntry{
		7: {deleted},
		8: {},
	}, statuses)
}

func TestPurgeService_Statuses_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.ledger.EXPECT().GetStatuses(gomock.Any(), int64(7)).Return(nil, store.ErrTransient)

	_, err := svc.Statuses(context.Background(), []int64{7})
	assert.ErrorIs(t, err, ErrReadingStatuses)
	assert.ErrorIs(t, err, store.ErrTransient)
}

// ─────────────────────────────────────────────
// Validate
// ─────────────────────────────────────────────

func TestPurgeService_Validate_Structural(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newTestPurgeService(t, ctrl, nil)

	require.NoError(t, svc.Validate(context.Background(), false))

	svc.registry = registry.New(registry.Group{Component: "mod", Module: "forum", Descriptors: []registry.Descriptor{
		{Table: "forum_posts", Alias: "fp", Field: "userid", Purpose: registry.PurposeCheck},
		{Table: "forum_discussions", Alias: "fp", Field: "userid", Purpose: registry.PurposeCheck},
	}})
	err := svc.Validate(context.Background(), false)
	assert.ErrorIs(t, err, ErrInvalidRegistry)
}

func TestPurgeService_Validate_Schema(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.schema.EXPECT().TableExists(gomock.Any(), "users").Return(true, nil)
	m.schema.EXPECT().ColumnExists(gomock.Any(), "users", "id").Return(true, nil)
	m.schema.EXPECT().ColumnExists(gomock.Any(), "users", "deleted").Return(true, nil)
	m.plugins.EXPECT().IsInstalled(gomock.Any(), "mod_forum").Return(true, nil)
	m.schema.EXPECT().TableExists(gomock.Any(), "forum_posts").Return(true, nil)
	m.schema.EXPECT().ColumnExists(gomock.Any(), "forum_posts", "userid").Return(true, nil)
	m.schema.EXPECT().TableExists(gomock.Any(), "user_preferences").Return(false, nil)

	err := svc.Validate(context.Background(), true)
	assert.ErrorIs(t, err, ErrInvalidRegistry)
}

func TestPurgeService_Validate_MissingDeletedColumn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newTestPurgeService(t, ctrl, nil)

	m.schema.EXPECT().TableExists(gomock.Any(), "users").Return(true, nil)
	m.schema.EXPECT().ColumnExists(gomock.Any(), "users", "id").Return(true, nil)
	m.schema.EXPECT().ColumnExists(gomock.Any(), "users", "deleted").Return(false, nil)

	err := svc.Validate(context.Background(), true)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}
