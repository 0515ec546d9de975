package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/doorflow/doorflow-backend/internal/logger"
	"github.com/doorflow/doorflow-backend/internal/repos"
	"github.com/doorflow/doorflow-backend/internal/requestdata"
	"github.com/doorflow/doorflow-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Customer{},
		&types.Site{},
		&types.Estimate{},
		&types.Bid{},
		&types.Door{},
		&types.DoorLineItem{},
		&types.Job{},
		&types.TimeTrackingSession{},
		&types.JobSignature{},
		&types.MobileJobLineItem{},
		&types.DoorMedia{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

type testEnv struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	bidRepo       repos.BidRepo
	doorRepo      repos.DoorRepo
	jobRepo       repos.JobRepo
	sessionRepo   repos.TimeSessionRepo
	sigRepo       repos.SignatureRepo
	lineItemRepo  repos.MobileJobLineItemRepo
	mediaRepo     repos.DoorMediaRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	return &testEnv{
		db:            db,
		log:           log,
		userRepo:      repos.NewUserRepo(db, log),
		userTokenRepo: repos.NewUserTokenRepo(db, log),
		bidRepo:       repos.NewBidRepo(db, log),
		doorRepo:      repos.NewDoorRepo(db, log),
		jobRepo:       repos.NewJobRepo(db, log),
		sessionRepo:   repos.NewTimeSessionRepo(db, log),
		sigRepo:       repos.NewSignatureRepo(db, log),
		lineItemRepo:  repos.NewMobileJobLineItemRepo(db, log),
		mediaRepo:     repos.NewDoorMediaRepo(db, log),
	}
}

func (te *testEnv) jobService() JobService {
	return NewJobService(te.db, te.log, te.jobRepo, te.bidRepo, te.doorRepo, te.sigRepo)
}

func (te *testEnv) dispatchService() DispatchService {
	return NewDispatchService(te.db, te.log, te.jobRepo)
}

func (te *testEnv) timeTrackingService() TimeTrackingService {
	return NewTimeTrackingService(te.db, te.log, te.jobRepo, te.sessionRepo, te.sigRepo)
}

func (te *testEnv) completionService() CompletionService {
	return NewCompletionService(te.db, te.log, te.jobRepo, te.doorRepo, te.sigRepo, te.lineItemRepo, te.sessionRepo)
}

func (te *testEnv) mobileFeedService() MobileFeedService {
	return NewMobileFeedService(te.db, te.log, te.jobRepo, te.sessionRepo, te.sigRepo, te.lineItemRepo, te.mediaRepo, te.completionService())
}

// Seeded job numbers use a "T" prefix so they never collide with generated
// month-coded numbers.
var jobNumberSeq int64

// fixture is one fully seeded customer/site/estimate/bid chain with doors,
// line items and a job hanging off it.
type fixture struct {
	customer *types.Customer
	site     *types.Site
	estimate *types.Estimate
	bid      *types.Bid
	doors    []*types.Door
	items    []*types.DoorLineItem
	job      *types.Job
}

type fixtureOpts struct {
	doors         int
	itemsPerDoor  int
	status        types.JobStatus
	scheduledDate *time.Time
	truck         string
	visible       bool
	jobOrder      int
	bidStatus     string
}

func seedFixture(t *testing.T, db *gorm.DB, opts fixtureOpts) *fixture {
	t.Helper()
	if opts.doors == 0 {
		opts.doors = 2
	}
	if opts.status == "" {
		opts.status = types.JobStatusUnscheduled
	}
	if opts.bidStatus == "" {
		opts.bidStatus = types.BidStatusApproved
	}

	f := &fixture{}
	f.customer = &types.Customer{ID: uuid.New(), Name: "Overhead Door Co", ContactName: "Pat Jones", Phone: "555-0100"}
	if err := db.Create(f.customer).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	f.site = &types.Site{ID: uuid.New(), CustomerID: f.customer.ID, Name: "Warehouse 4", Address: "19 Dock St"}
	if err := db.Create(f.site).Error; err != nil {
		t.Fatalf("failed to seed site: %v", err)
	}
	f.estimate = &types.Estimate{ID: uuid.New(), CustomerID: f.customer.ID, SiteID: &f.site.ID, EstimatedHours: 6}
	if err := db.Create(f.estimate).Error; err != nil {
		t.Fatalf("failed to seed estimate: %v", err)
	}
	f.bid = &types.Bid{ID: uuid.New(), EstimateID: f.estimate.ID, Status: opts.bidStatus}
	if err := db.Create(f.bid).Error; err != nil {
		t.Fatalf("failed to seed bid: %v", err)
	}
	for i := 0; i < opts.doors; i++ {
		door := &types.Door{ID: uuid.New(), BidID: f.bid.ID, Location: "Bay", DoorType: "rollup"}
		if err := db.Create(door).Error; err != nil {
			t.Fatalf("failed to seed door: %v", err)
		}
		f.doors = append(f.doors, door)
		for j := 0; j < opts.itemsPerDoor; j++ {
			item := &types.DoorLineItem{ID: uuid.New(), DoorID: door.ID, Category: types.LineItemCategoryMaterial, Description: "panel", Quantity: 1}
			if err := db.Create(item).Error; err != nil {
				t.Fatalf("failed to seed line item: %v", err)
			}
			f.items = append(f.items, item)
		}
	}

	f.job = &types.Job{
		ID:        uuid.New(),
		JobNumber: fmt.Sprintf("T%05d", atomic.AddInt64(&jobNumberSeq, 1)),
		BidID:     f.bid.ID,
		Status:    opts.status,
		IsVisible: opts.visible,
		JobOrder:  opts.jobOrder,
	}
	if opts.scheduledDate != nil {
		normalized := types.NormalizeDate(*opts.scheduledDate)
		f.job.ScheduledDate = &normalized
	}
	if opts.truck != "" {
		f.job.TruckAssignment = &opts.truck
	}
	if err := db.Create(f.job).Error; err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}
	return f
}

func adminCtx() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   types.RoleAdmin,
	})
}

func fieldCtx(truck string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   types.RoleField,
		Truck:  truck,
	})
}

func datePtr(t time.Time) *time.Time {
	normalized := types.NormalizeDate(t)
	return &normalized
}
