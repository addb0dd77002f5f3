package tables

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg"
)

const tableEventSource = "table-coordinator"

// Coordinator serializes table occupancy changes. The session workflow never
// touches table status directly; it always goes through here so the
// one-open-session-per-table rule has a single enforcement point.
type Coordinator struct {
	repo      TableRepo
	publisher events.Publisher
	logger    aqm.Logger
}

func NewCoordinator(repo TableRepo, publisher events.Publisher, logger aqm.Logger) *Coordinator {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Coordinator{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Occupy binds a session to a table. A table that is occupied or cleaning
// rejects the claim with a conflict; reserved tables accept it (the guest
// arrived).
func (c *Coordinator) Occupy(ctx context.Context, tableID, sessionID uuid.UUID) (*Table, error) {
	table, err := c.repo.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if table == nil {
		return nil, fault.NewNotFound("table", tableID.String())
	}

	if !table.Seatable() {
		c.publishRejection(ctx, table, sessionID, "occupy")
		return nil, fault.NewConflict("table", fmt.Sprintf("table %s is %s", table.Number, table.Status))
	}

	previousStatus := table.Status
	table.Occupy(sessionID)
	table.BeforeUpdate()

	if err := c.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	c.publishStatusChanged(ctx, table, previousStatus, "session opened")
	return table, nil
}

// Release frees the table when its session ends. The table lands in cleaning,
// not available. Releasing an already-free table is a no-op so session close
// retries stay idempotent.
func (c *Coordinator) Release(ctx context.Context, tableID uuid.UUID) (*Table, error) {
	table, err := c.repo.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if table == nil {
		return nil, fault.NewNotFound("table", tableID.String())
	}

	if table.Status != StatusOccupied {
		return table, nil
	}

	previousStatus := table.Status
	table.Release()
	table.BeforeUpdate()

	if err := c.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	c.publishStatusChanged(ctx, table, previousStatus, "session ended")
	return table, nil
}

// FinishCleaning returns a cleaned table to the floor.
func (c *Coordinator) FinishCleaning(ctx context.Context, tableID uuid.UUID) (*Table, error) {
	table, err := c.repo.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if table == nil {
		return nil, fault.NewNotFound("table", tableID.String())
	}

	if table.Status != StatusCleaning {
		return nil, fault.NewConflict("table", fmt.Sprintf("table %s is %s, not cleaning", table.Number, table.Status))
	}

	previousStatus := table.Status
	table.FinishCleaning()
	table.BeforeUpdate()

	if err := c.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	c.publishStatusChanged(ctx, table, previousStatus, "cleaning finished")
	return table, nil
}

// Reserve holds an available table for a future party.
func (c *Coordinator) Reserve(ctx context.Context, tableID uuid.UUID) (*Table, error) {
	table, err := c.repo.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if table == nil {
		return nil, fault.NewNotFound("table", tableID.String())
	}

	if table.Status != StatusAvailable {
		return nil, fault.NewConflict("table", fmt.Sprintf("table %s is %s", table.Number, table.Status))
	}

	previousStatus := table.Status
	table.Reserve()
	table.BeforeUpdate()

	if err := c.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	c.publishStatusChanged(ctx, table, previousStatus, "reserved")
	return table, nil
}

// CancelReservation releases a hold without seating anyone.
func (c *Coordinator) CancelReservation(ctx context.Context, tableID uuid.UUID) (*Table, error) {
	table, err := c.repo.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("cannot load table: %w", err)
	}
	if table == nil {
		return nil, fault.NewNotFound("table", tableID.String())
	}

	if table.Status != StatusReserved {
		return nil, fault.NewConflict("table", fmt.Sprintf("table %s is %s, not reserved", table.Number, table.Status))
	}

	previousStatus := table.Status
	table.CancelReservation()
	table.BeforeUpdate()

	if err := c.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	c.publishStatusChanged(ctx, table, previousStatus, "reservation cancelled")
	return table, nil
}

func (c *Coordinator) publishStatusChanged(ctx context.Context, table *Table, previousStatus, reason string) {
	if c.publisher == nil || table == nil {
		return
	}

	event := pkg.TableStatusEvent{
		EventType:      pkg.EventTableStatusChanged,
		TableID:        table.ID.String(),
		TableNumber:    table.Number,
		Status:         table.Status,
		PreviousStatus: previousStatus,
		Reason:         reason,
		Source:         tableEventSource,
		OccurredAt:     time.Now().UTC(),
	}
	if table.CurrentSessionID != nil {
		event.SessionID = table.CurrentSessionID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("cannot marshal table status event", "error", err, "table_id", table.ID.String())
		return
	}

	if err := c.publisher.Publish(ctx, pkg.TableStatusTopic, payload); err != nil {
		c.logger.Error("cannot publish table status event", "error", err, "table_id", table.ID.String())
	}
}

func (c *Coordinator) publishRejection(ctx context.Context, table *Table, sessionID uuid.UUID, action string) {
	if c.publisher == nil {
		return
	}

	event := pkg.SessionTableRejectionEvent{
		EventType:  pkg.EventSessionTableRejected,
		TableID:    table.ID.String(),
		SessionID:  sessionID.String(),
		Action:     action,
		Reason:     fmt.Sprintf("table is %s", table.Status),
		Status:     table.Status,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("cannot marshal table rejection event", "error", err, "table_id", table.ID.String())
		return
	}

	if err := c.publisher.Publish(ctx, pkg.SessionTableTopic, payload); err != nil {
		c.logger.Error("cannot publish table rejection event", "error", err, "table_id", table.ID.String())
	}
}
