package itinerary

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"trip-planner/internal/models"
	"trip-planner/internal/modules/catalog"
	"trip-planner/pkg/email"
)

const dateLayout = "2006-01-02"

// TimingServiceInterface is the slice of the timing module the engine needs.
type TimingServiceInterface interface {
	GetDefaults(ctx context.Context, userID string) (*models.TimingProfile, error)
}

// Config carries the behavior knobs of the itinerary service.
type Config struct {
	// ClientOrigin is the frontend base URL used to build share links.
	ClientOrigin string
	// SharePolicy is "single" (one reusable code per itinerary) or "append"
	// (a fresh code per request).
	SharePolicy string
	// DaySeedPolicy is "hotel" (days after the first start at the
	// accommodation) or "none" (later days start empty).
	DaySeedPolicy string
}

// ServiceInterface is the itinerary business logic contract.
type ServiceInterface interface {
	CreateItinerary(ctx context.Context, userID string, req models.CreateItineraryRequest) (*models.Itinerary, error)
	ListMyItineraries(ctx context.Context, userID string) ([]*models.ItinerarySummary, error)
	GetMenuDetails(ctx context.Context, userID string, itineraryID int) (*models.MenuDetails, error)
	GetTimeline(ctx context.Context, userID string, itineraryID int) (*models.Timeline, error)
	GetRoute(ctx context.Context, userID string, itineraryID, dayID int) ([]*models.RouteDay, error)
	GetDaySummary(ctx context.Context, userID string, dayID int) (*models.DaySummary, error)

	AddItem(ctx context.Context, userID string, dayID int, req models.AddItemRequest) (*models.ItineraryItem, error)
	ReorderItems(ctx context.Context, userID string, dayID int, req models.ReorderItemsRequest) (*models.DaySummary, error)
	UpdateItemDuration(ctx context.Context, userID string, itemID int, stay time.Duration) (*models.DaySummary, error)
	UpdateItemCost(ctx context.Context, userID string, itemID int, cost *float64) error
	UpdateItemDescription(ctx context.Context, userID string, itemID int, description string) error
	DeleteItem(ctx context.Context, userID string, itemID int) (*models.DaySummary, error)

	GetDayCostBreakup(ctx context.Context, userID string, dayID int) (*models.DayCostBreakup, error)
	GetItineraryCostBreakup(ctx context.Context, userID string, itineraryID int) (*models.ItineraryCostBreakup, error)

	CreateShareCode(ctx context.Context, userID string, itineraryID int, req models.CreateShareCodeRequest) (*models.ShareCodeResponse, error)
	GetShareCode(ctx context.Context, userID string, itineraryID int) (*models.ShareCodeResponse, error)
	ResolveShareCode(ctx context.Context, code string) (*models.MenuDetails, error)
}

// Service implements ServiceInterface. Chain mutations on a day are
// serialized with a per-day lock so two concurrent edits cannot interleave
// their read-recompute-write cycles.
type Service struct {
	repo      RepositoryInterface
	catalog   catalog.ServiceInterface
	timing    TimingServiceInterface
	distance  DistanceProviderInterface
	emailer   email.ServiceInterface
	templates *email.TemplateManager
	cfg       Config

	mu       sync.Mutex
	dayLocks map[int]*sync.Mutex
}

// NewService creates a new itinerary service.
func NewService(
	repo RepositoryInterface,
	catalogSvc catalog.ServiceInterface,
	timingSvc TimingServiceInterface,
	distance DistanceProviderInterface,
	emailer email.ServiceInterface,
	templates *email.TemplateManager,
	cfg Config,
) ServiceInterface {
	return &Service{
		repo:      repo,
		catalog:   catalogSvc,
		timing:    timingSvc,
		distance:  distance,
		emailer:   emailer,
		templates: templates,
		cfg:       cfg,
		dayLocks:  make(map[int]*sync.Mutex),
	}
}

// lockDay serializes chain mutations for one day. Returns the unlock func.
func (s *Service) lockDay(dayID int) func() {
	s.mu.Lock()
	l, ok := s.dayLocks[dayID]
	if !ok {
		l = &sync.Mutex{}
		s.dayLocks[dayID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// authorizeItinerary loads an itinerary and verifies ownership. A foreign
// itinerary is reported as not found so existence is not leaked.
func (s *Service) authorizeItinerary(ctx context.Context, userID string, itineraryID int) (*models.Itinerary, error) {
	itin, err := s.repo.FindItinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if itin.UserID != userID {
		return nil, models.ErrNotFound
	}
	return itin, nil
}

// authorizeDay loads a day and verifies the owning itinerary belongs to userID.
func (s *Service) authorizeDay(ctx context.Context, userID string, dayID int) (*models.ItineraryDay, *models.Itinerary, error) {
	day, err := s.repo.FindDay(ctx, dayID)
	if err != nil {
		return nil, nil, err
	}
	itin, err := s.authorizeItinerary(ctx, userID, day.ItineraryID)
	if err != nil {
		return nil, nil, err
	}
	return day, itin, nil
}

// CreateItinerary resolves the destination, starting point and accommodation,
// then builds the full day graph in memory and persists it in one
// transaction. Day one is seeded with the starting point followed by the
// accommodation; later days are seeded per the configured policy.
func (s *Service) CreateItinerary(ctx context.Context, userID string, req models.CreateItineraryRequest) (*models.Itinerary, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date", models.ErrInvalidInput)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date", models.ErrInvalidInput)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", models.ErrInvalidInput)
	}

	profile, err := s.timing.GetDefaults(ctx, userID)
	if err != nil {
		return nil, err
	}

	loc, err := s.catalog.ResolveLocation(ctx, req.LocationRef)
	if err != nil {
		return nil, err
	}
	start, err := s.catalog.Resolve(ctx, userID, models.ItemTypeStartingPoint, req.StartingPoint)
	if err != nil {
		return nil, err
	}
	hotel, err := s.catalog.Resolve(ctx, userID, models.ItemTypeHotel, req.Accommodation)
	if err != nil {
		return nil, err
	}

	// The only travel leg known at creation time: starting point to hotel.
	leg, err := s.distance.DistanceDuration(ctx, start.PlaceRef, hotel.PlaceRef)
	if err != nil {
		return nil, fmt.Errorf("service.CreateItinerary: %w", err)
	}

	numDays := int(endDate.Sub(startDate).Hours()/24) + 1
	days := make([]*models.ItineraryDay, 0, numDays)
	itemsByDay := make([][]*models.ItineraryItem, 0, numDays)

	for n := 1; n <= numDays; n++ {
		date := startDate.AddDate(0, 0, n-1)
		days = append(days, &models.ItineraryDay{DayNumber: n, Date: date})

		if n == 1 {
			startArrival := date.Add(profile.DayStart)
			dist := leg.DistanceMeters
			travel := leg.Duration
			itemsByDay = append(itemsByDay, []*models.ItineraryItem{
				{
					OrderIndex:  0,
					Type:        models.ItemTypeStartingPoint,
					Ref:         models.ItemReference{Type: models.ItemTypeStartingPoint, ID: start.ID},
					ArrivalTime: startArrival,
				},
				{
					OrderIndex:     1,
					Type:           models.ItemTypeHotel,
					Ref:            models.ItemReference{Type: models.ItemTypeHotel, ID: hotel.ID},
					ArrivalTime:    startArrival.Add(travel),
					DistanceMeters: &dist,
					TravelDuration: &travel,
					StayDuration:   profile.HotelDayDuration,
				},
			})
			continue
		}

		if s.cfg.DaySeedPolicy == "none" {
			itemsByDay = append(itemsByDay, nil)
			continue
		}
		// Every later day starts where the night ended: at the hotel.
		itemsByDay = append(itemsByDay, []*models.ItineraryItem{
			{
				OrderIndex:  0,
				Type:        models.ItemTypeHotel,
				Ref:         models.ItemReference{Type: models.ItemTypeHotel, ID: hotel.ID},
				ArrivalTime: date.Add(profile.DayStart),
			},
		})
	}

	itin := &models.Itinerary{
		UserID:          userID,
		Title:           req.Title,
		LocationID:      loc.ID,
		StartDate:       startDate,
		EndDate:         endDate,
		StartingPointID: start.ID,
	}
	out, err := s.repo.CreateItineraryGraph(ctx, itin, days, itemsByDay)
	if err != nil {
		return nil, fmt.Errorf("service.CreateItinerary: %w", err)
	}
	return out, nil
}

func (s *Service) ListMyItineraries(ctx context.Context, userID string) ([]*models.ItinerarySummary, error) {
	summaries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListMyItineraries: %w", err)
	}
	return summaries, nil
}

func (s *Service) GetMenuDetails(ctx context.Context, userID string, itineraryID int) (*models.MenuDetails, error) {
	itin, err := s.authorizeItinerary(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}
	return &models.MenuDetails{
		ID:        itin.ID,
		Title:     itin.Title,
		StartDate: itin.StartDate,
		EndDate:   itin.EndDate,
	}, nil
}

// GetTimeline returns, per day, the distinct stop types in chain order plus
// the destination address.
func (s *Service) GetTimeline(ctx context.Context, userID string, itineraryID int) (*models.Timeline, error) {
	itin, err := s.authorizeItinerary(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}
	loc, err := s.repo.FindLocationByID(ctx, itin.LocationID)
	if err != nil {
		return nil, fmt.Errorf("service.GetTimeline: %w", err)
	}
	days, err := s.repo.ListDays(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("service.GetTimeline: %w", err)
	}

	timeline := &models.Timeline{ItineraryID: itineraryID}
	for _, day := range days {
		stops, err := s.repo.ListChainStops(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("service.GetTimeline day %d: %w", day.ID, err)
		}

		var types []models.ItemType
		seen := make(map[models.ItemType]bool)
		for _, stop := range stops {
			if !seen[stop.Item.Type] {
				seen[stop.Item.Type] = true
				types = append(types, stop.Item.Type)
			}
		}
		timeline.Days = append(timeline.Days, models.TimelineDay{
			DayID:     day.ID,
			DayNumber: day.DayNumber,
			Date:      day.Date,
			Address:   loc.Address,
			Types:     types,
		})
	}
	return timeline, nil
}

// GetRoute returns the map stops for one day, or for every day when dayID is
// zero.
func (s *Service) GetRoute(ctx context.Context, userID string, itineraryID, dayID int) ([]*models.RouteDay, error) {
	if _, err := s.authorizeItinerary(ctx, userID, itineraryID); err != nil {
		return nil, err
	}
	days, err := s.repo.ListDays(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("service.GetRoute: %w", err)
	}

	var route []*models.RouteDay
	for _, day := range days {
		if dayID != 0 && day.ID != dayID {
			continue
		}
		stops, err := s.repo.ListChainStops(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("service.GetRoute day %d: %w", day.ID, err)
		}

		rd := &models.RouteDay{DayID: day.ID, DayNumber: day.DayNumber, Date: day.Date}
		for _, stop := range stops {
			rd.Stops = append(rd.Stops, models.RouteStop{
				OrderIndex: stop.Item.OrderIndex,
				PlaceRef:   stop.PlaceRef,
				Type:       stop.Item.Type,
				Name:       stop.Name,
				Address:    stop.Address,
				Latitude:   stop.Latitude,
				Longitude:  stop.Longitude,
			})
		}
		route = append(route, rd)
	}
	if dayID != 0 && len(route) == 0 {
		return nil, models.ErrNotFound
	}
	return route, nil
}

func (s *Service) GetDaySummary(ctx context.Context, userID string, dayID int) (*models.DaySummary, error) {
	day, _, err := s.authorizeDay(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}
	stops, err := s.repo.ListChainStops(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.GetDaySummary: %w", err)
	}
	return buildDaySummary(day, stops), nil
}

// buildDaySummary aggregates a day's stops into the summary read model.
func buildDaySummary(day *models.ItineraryDay, stops []*models.ChainStop) *models.DaySummary {
	summary := &models.DaySummary{
		ItineraryID: day.ItineraryID,
		DayID:       day.ID,
		DayTitle:    fmt.Sprintf("Day %d", day.DayNumber),
		Date:        day.Date,
	}
	for i, stop := range stops {
		item := stop.Item
		if i == 0 {
			departure := item.ArrivalTime
			summary.DepartureTime = &departure
		}
		if item.Cost != nil {
			summary.TotalCost += *item.Cost
		}
		if item.DistanceMeters != nil {
			summary.TotalDistanceMeters += *item.DistanceMeters
		}
		if item.TravelDuration != nil {
			summary.TotalTravelDuration += *item.TravelDuration
		}
		summary.TotalStayDuration += item.StayDuration

		summary.Stops = append(summary.Stops, models.StopSummary{
			ItemID:         item.ID,
			OrderIndex:     item.OrderIndex,
			Type:           item.Type,
			Name:           stop.Name,
			Address:        stop.Address,
			ArrivalTime:    item.ArrivalTime,
			StayDuration:   item.StayDuration,
			TravelDuration: item.TravelDuration,
			DistanceMeters: item.DistanceMeters,
			Cost:           item.Cost,
			Latitude:       stop.Latitude,
			Longitude:      stop.Longitude,
			Description:    item.Description,
		})
	}
	return summary
}

// AddItem appends a stop to the end of a day's chain. The arrival time of the
// new stop includes the travel leg from the current last stop. An empty day
// gets the new stop as its head with no travel leg at all.
func (s *Service) AddItem(ctx context.Context, userID string, dayID int, req models.AddItemRequest) (*models.ItineraryItem, error) {
	typ, err := models.ParseItemType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown item type %q", models.ErrInvalidInput, req.Type)
	}
	day, _, err := s.authorizeDay(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}
	profile, err := s.timing.GetDefaults(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := s.catalog.Resolve(ctx, userID, typ, req.PlaceRef)
	if err != nil {
		return nil, err
	}

	unlock := s.lockDay(dayID)
	defer unlock()

	stops, err := s.repo.ListChainStops(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.AddItem: %w", err)
	}

	item := &models.ItineraryItem{
		DayID:        dayID,
		Type:         typ,
		Ref:          models.ItemReference{Type: typ, ID: rec.ID},
		StayDuration: profile.StayDurationFor(typ),
	}

	if len(stops) == 0 {
		// Head of an empty day. No previous stop means no travel lookup.
		item.OrderIndex = 0
		item.ArrivalTime = day.Date.Add(profile.DayStart)
	} else {
		last := stops[len(stops)-1]
		leg, err := s.distance.DistanceDuration(ctx, last.PlaceRef, rec.PlaceRef)
		if err != nil {
			return nil, fmt.Errorf("service.AddItem: %w", err)
		}
		dist, travel := leg.DistanceMeters, leg.Duration
		item.OrderIndex = last.Item.OrderIndex + 1
		item.ArrivalTime = last.Item.ArrivalTime.Add(last.Item.StayDuration + travel)
		item.DistanceMeters = &dist
		item.TravelDuration = &travel
	}

	out, err := s.repo.InsertItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("service.AddItem: %w", err)
	}
	return out, nil
}

// ReorderItems rearranges a day's chain to the requested order and retimes
// every stop after the new head. All travel lookups run before any write, so
// a failed lookup leaves the stored chain untouched.
func (s *Service) ReorderItems(ctx context.Context, userID string, dayID int, req models.ReorderItemsRequest) (*models.DaySummary, error) {
	day, _, err := s.authorizeDay(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockDay(dayID)
	defer unlock()

	stops, err := s.repo.ListChainStops(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ReorderItems: %w", err)
	}

	requested := make(map[int]int, len(req.Stops))
	for _, so := range req.Stops {
		requested[so.ItemID] = so.OrderIndex
	}
	for _, stop := range stops {
		idx, ok := requested[stop.Item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: reorder omits item %d", models.ErrInvalidInput, stop.Item.ID)
		}
		stop.Item.OrderIndex = idx
		delete(requested, stop.Item.ID)
	}
	if len(requested) != 0 {
		return nil, fmt.Errorf("%w: reorder names items outside the day", models.ErrNotFound)
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Item.OrderIndex < stops[j].Item.OrderIndex
	})
	for i, stop := range stops {
		stop.Item.OrderIndex = i
	}

	if len(stops) > 0 {
		clearHeadTravel(stops[0])
		if err := recomputeTimings(ctx, stops, s.distance); err != nil {
			return nil, fmt.Errorf("service.ReorderItems: %w", err)
		}
	}

	items := make([]*models.ItineraryItem, len(stops))
	for i, stop := range stops {
		items[i] = stop.Item
	}
	if err := s.repo.ApplyChainUpdate(ctx, 0, items); err != nil {
		return nil, fmt.Errorf("service.ReorderItems: %w", err)
	}
	return buildDaySummary(day, stops), nil
}

// UpdateItemDuration changes a stop's dwell time and retimes everything after
// it. Stops before the edited one are untouched.
func (s *Service) UpdateItemDuration(ctx context.Context, userID string, itemID int, stay time.Duration) (*models.DaySummary, error) {
	if stay < 0 {
		return nil, fmt.Errorf("%w: negative stay duration", models.ErrInvalidInput)
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	day, _, err := s.authorizeDay(ctx, userID, item.DayID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockDay(item.DayID)
	defer unlock()

	stops, err := s.repo.ListChainStops(ctx, item.DayID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateItemDuration: %w", err)
	}

	idx := -1
	for i, stop := range stops {
		if stop.Item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, models.ErrNotFound
	}

	stops[idx].Item.StayDuration = stay
	suffix := stops[idx:]
	if err := recomputeTimings(ctx, suffix, s.distance); err != nil {
		return nil, fmt.Errorf("service.UpdateItemDuration: %w", err)
	}

	items := make([]*models.ItineraryItem, len(suffix))
	for i, stop := range suffix {
		items[i] = stop.Item
	}
	if err := s.repo.ApplyChainUpdate(ctx, 0, items); err != nil {
		return nil, fmt.Errorf("service.UpdateItemDuration: %w", err)
	}
	return buildDaySummary(day, stops), nil
}

func (s *Service) UpdateItemCost(ctx context.Context, userID string, itemID int, cost *float64) error {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, _, err := s.authorizeDay(ctx, userID, item.DayID); err != nil {
		return err
	}
	if err := s.repo.UpdateItemCost(ctx, itemID, cost); err != nil {
		return fmt.Errorf("service.UpdateItemCost: %w", err)
	}
	return nil
}

func (s *Service) UpdateItemDescription(ctx context.Context, userID string, itemID int, description string) error {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, _, err := s.authorizeDay(ctx, userID, item.DayID); err != nil {
		return err
	}
	if err := s.repo.UpdateItemDescription(ctx, itemID, description); err != nil {
		return fmt.Errorf("service.UpdateItemDescription: %w", err)
	}
	return nil
}

// DeleteItem splices a stop out of its chain. The survivors are renumbered
// densely and every stop from the splice point onward is retimed. Deleting
// the head promotes the next stop to head: it keeps its arrival time but
// loses its travel leg.
func (s *Service) DeleteItem(ctx context.Context, userID string, itemID int) (*models.DaySummary, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	day, _, err := s.authorizeDay(ctx, userID, item.DayID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockDay(item.DayID)
	defer unlock()

	stops, err := s.repo.ListChainStops(ctx, item.DayID)
	if err != nil {
		return nil, fmt.Errorf("service.DeleteItem: %w", err)
	}

	idx := -1
	for i, stop := range stops {
		if stop.Item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, models.ErrNotFound
	}

	survivors := append(stops[:idx:idx], stops[idx+1:]...)
	for i, stop := range survivors {
		stop.Item.OrderIndex = i
	}

	if len(survivors) > 0 {
		if idx == 0 {
			clearHeadTravel(survivors[0])
			if err := recomputeTimings(ctx, survivors, s.distance); err != nil {
				return nil, fmt.Errorf("service.DeleteItem: %w", err)
			}
		} else if err := recomputeTimings(ctx, survivors[idx-1:], s.distance); err != nil {
			return nil, fmt.Errorf("service.DeleteItem: %w", err)
		}
	}

	items := make([]*models.ItineraryItem, len(survivors))
	for i, stop := range survivors {
		items[i] = stop.Item
	}
	if err := s.repo.ApplyChainUpdate(ctx, itemID, items); err != nil {
		return nil, fmt.Errorf("service.DeleteItem: %w", err)
	}
	return buildDaySummary(day, survivors), nil
}
