package workflow

import (
	"context"

	"github.com/GregMSThompson/onboarding/pkg/logger"
)

// Load fetches regions and banks. Directory failures are logged and leave
// the list empty; the form stays usable.
func (w *Workflow) Load(ctx context.Context) {
	log := logger.FromContext(ctx)

	regions, err := w.api.Regions(ctx)
	if err != nil {
		log.Warn("failed to fetch regions", "err", err)
	}
	banks, err := w.api.Banks(ctx)
	if err != nil {
		log.Warn("failed to fetch banks", "err", err)
	}

	w.mu.Lock()
	w.regions = regions
	w.banks = banks
	w.mu.Unlock()
	w.notify()
}

// SetRegion selects a region, clears the selected zone and fetches the
// region's zones. A response for a region that is no longer selected is
// dropped.
func (w *Workflow) SetRegion(ctx context.Context, regionID string) error {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	w.form.RegionID = regionID
	w.form.ZoneID = ""
	w.zones = nil
	w.regionGen++
	gen := w.regionGen
	w.mu.Unlock()
	w.notify()

	if regionID == "" {
		return nil
	}

	zones, err := w.api.Zones(ctx, regionID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to fetch zones", "region_id", regionID, "err", err)
		return nil
	}

	w.mu.Lock()
	if gen != w.regionGen {
		w.mu.Unlock()
		return nil
	}
	w.zones = zones
	w.mu.Unlock()
	w.notify()
	return nil
}
