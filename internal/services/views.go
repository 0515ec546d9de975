package services

import (
  "time"
  "github.com/google/uuid"
  "github.com/doorflow/doorflow-backend/internal/types"
)

// Typed projections for every external response shape. Handlers serialize these
// directly; all denormalization through the bid chain happens in the mapping
// functions below so the customer/site fields are populated the same way
// everywhere.

const notAvailable = "N/A"

type BoardEntry struct {
  JobID            uuid.UUID        `json:"job_id"`
  JobNumber        string           `json:"job_number"`
  Status           types.JobStatus  `json:"status"`
  TruckAssignment  string           `json:"truck_assignment,omitempty"`
  JobOrder         int              `json:"job_order"`
  IsVisible        bool             `json:"is_visible"`
  CustomerName     string           `json:"customer_name"`
  SiteAddress      string           `json:"site_address"`
  ContactName      string           `json:"contact_name"`
  ContactPhone     string           `json:"contact_phone"`
  EstimatedHours   float64          `json:"estimated_hours"`
  Region           string           `json:"region"`
  MaterialReady    bool             `json:"material_ready"`
  MaterialLocation string           `json:"material_location"`
  JobScope         string           `json:"job_scope"`
}

type BoardView struct {
  Date       string                    `json:"date"`
  Unassigned []*BoardEntry             `json:"unassigned"`
  Trucks     map[string][]*BoardEntry  `json:"trucks"`
}

type JobView struct {
  ID               uuid.UUID        `json:"id"`
  JobNumber        string           `json:"job_number"`
  Status           types.JobStatus  `json:"status"`
  ScheduledDate    string           `json:"scheduled_date,omitempty"`
  TruckAssignment  string           `json:"truck_assignment,omitempty"`
  JobOrder         int              `json:"job_order"`
  IsVisible        bool             `json:"is_visible"`
  MaterialReady    bool             `json:"material_ready"`
  MaterialLocation string           `json:"material_location"`
  Region           string           `json:"region"`
  JobScope         string           `json:"job_scope"`
  CustomerName     string           `json:"customer_name"`
  SiteAddress      string           `json:"site_address"`
  Doors            []*DoorView      `json:"doors,omitempty"`
}

type DoorView struct {
  ID         uuid.UUID        `json:"id"`
  Location   string           `json:"location"`
  DoorType   string           `json:"door_type"`
  Completed  bool             `json:"completed"`
  HasPhoto   bool             `json:"has_photo"`
  HasVideo   bool             `json:"has_video"`
  LineItems  []*LineItemView  `json:"line_items"`
}

type LineItemView struct {
  ID          uuid.UUID  `json:"id"`
  Category    string     `json:"category"`
  Description string     `json:"description"`
  Quantity    int        `json:"quantity"`
  Completed   bool       `json:"completed"`
  CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type FieldJobEntry struct {
  JobID           uuid.UUID           `json:"job_id"`
  JobNumber       string              `json:"job_number"`
  Status          types.JobStatus     `json:"status"`
  JobOrder        int                 `json:"job_order"`
  CustomerName    string              `json:"customer_name"`
  SiteAddress     string              `json:"site_address"`
  EstimatedHours  float64             `json:"estimated_hours"`
  JobScope        string              `json:"job_scope"`
  Progress        float64             `json:"progress"`
  TimingStatus    types.TimingStatus  `json:"timing_status"`
  TotalMinutes    float64             `json:"total_minutes"`
}

type FieldJobsSummary struct {
  TotalJobs      int     `json:"total_jobs"`
  CompletedJobs  int     `json:"completed_jobs"`
  InProgressJobs int     `json:"in_progress_jobs"`
  TotalMinutes   float64 `json:"total_minutes"`
}

type FieldJobsView struct {
  Date    string            `json:"date"`
  Jobs    []*FieldJobEntry  `json:"jobs"`
  Summary FieldJobsSummary  `json:"summary"`
}

type FieldJobDetailView struct {
  Job          *JobView            `json:"job"`
  Progress     float64             `json:"progress"`
  TimingStatus types.TimingStatus  `json:"timing_status"`
  TotalMinutes float64             `json:"total_minutes"`
}

type TimeSummaryView struct {
  Sessions     []*types.TimeTrackingSession `json:"sessions"`
  TotalMinutes float64                      `json:"total_minutes"`
  TimingStatus types.TimingStatus           `json:"timing_status"`
}

// bidChain pulls the denormalized customer/site/hours fields off a preloaded
// job, degrading each missing link to "N/A" instead of failing.
type bidChain struct {
  customerName string
  siteAddress  string
  contactName  string
  contactPhone string
  hours        float64
}

func resolveBidChain(job *types.Job) bidChain {
  chain := bidChain{
    customerName: notAvailable,
    siteAddress:  notAvailable,
    contactName:  notAvailable,
    contactPhone: notAvailable,
  }
  if job == nil || job.Bid == nil || job.Bid.Estimate == nil {
    return chain
  }
  est := job.Bid.Estimate
  chain.hours = est.EstimatedHours
  if est.Customer != nil {
    chain.customerName = est.Customer.Name
    if est.Customer.ContactName != "" {
      chain.contactName = est.Customer.ContactName
    }
    if est.Customer.Phone != "" {
      chain.contactPhone = est.Customer.Phone
    }
  }
  if est.Site != nil {
    if est.Site.Address != "" {
      chain.siteAddress = est.Site.Address
    }
    if est.Site.ContactName != "" {
      chain.contactName = est.Site.ContactName
    }
    if est.Site.ContactPhone != "" {
      chain.contactPhone = est.Site.ContactPhone
    }
  }
  return chain
}

func buildBoardEntry(job *types.Job) *BoardEntry {
  chain := resolveBidChain(job)
  entry := &BoardEntry{
    JobID:            job.ID,
    JobNumber:        job.JobNumber,
    Status:           job.Status,
    JobOrder:         job.JobOrder,
    IsVisible:        job.IsVisible,
    CustomerName:     chain.customerName,
    SiteAddress:      chain.siteAddress,
    ContactName:      chain.contactName,
    ContactPhone:     chain.contactPhone,
    EstimatedHours:   chain.hours,
    Region:           job.Region,
    MaterialReady:    job.MaterialReady,
    MaterialLocation: job.MaterialLocation,
    JobScope:         job.JobScope,
  }
  if job.Assigned() {
    entry.TruckAssignment = *job.TruckAssignment
  }
  return entry
}

func buildJobView(job *types.Job) *JobView {
  chain := resolveBidChain(job)
  view := &JobView{
    ID:               job.ID,
    JobNumber:        job.JobNumber,
    Status:           job.Status,
    JobOrder:         job.JobOrder,
    IsVisible:        job.IsVisible,
    MaterialReady:    job.MaterialReady,
    MaterialLocation: job.MaterialLocation,
    Region:           job.Region,
    JobScope:         job.JobScope,
    CustomerName:     chain.customerName,
    SiteAddress:      chain.siteAddress,
  }
  if job.ScheduledDate != nil {
    view.ScheduledDate = job.ScheduledDate.Format("2006-01-02")
  }
  if job.Assigned() {
    view.TruckAssignment = *job.TruckAssignment
  }
  return view
}

func buildFieldJobEntry(job *types.Job) *FieldJobEntry {
  chain := resolveBidChain(job)
  return &FieldJobEntry{
    JobID:          job.ID,
    JobNumber:      job.JobNumber,
    Status:         job.Status,
    JobOrder:       job.JobOrder,
    CustomerName:   chain.customerName,
    SiteAddress:    chain.siteAddress,
    EstimatedHours: chain.hours,
    JobScope:       job.JobScope,
  }
}
