package catalog

import (
	"context"
	"math"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/pkg/validator"

	"github.com/sirupsen/logrus"
)

type HotelRepository interface {
	Create(ctx context.Context, h *domain.Hotel) error
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
}

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error)
	UpdateDetails(ctx context.Context, r *domain.Room) error
	CountByStatus(ctx context.Context, hotelID int64, status domain.RoomStatus) (int64, error)
}

// Service manages the hotels and rooms reservations are made against.
type Service struct {
	hotels HotelRepository
	rooms  RoomRepository
	clock  clock.Clock
	log    *logrus.Logger
}

func NewService(hotels HotelRepository, rooms RoomRepository, clk clock.Clock, log *logrus.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{hotels: hotels, rooms: rooms, clock: clk, log: log}
}

func (s *Service) CreateHotel(ctx context.Context, req CreateHotelRequest) (*domain.Hotel, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	now := domain.NormalizeTime(s.clock.Now())
	hotel := &domain.Hotel{
		Name:      req.Name,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, err
	}

	s.log.WithField("hotel_id", hotel.ID).Info("hotel created")
	return hotel, nil
}

func (s *Service) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	return s.hotels.GetByID(ctx, id)
}

func (s *Service) CreateRoom(ctx context.Context, hotelID int64, req CreateRoomRequest) (*domain.Room, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.RoomAvailable
	}

	now := domain.NormalizeTime(s.clock.Now())
	room := &domain.Room{
		HotelID:     hotelID,
		Number:      req.Number,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Price:       roundPrice(req.Price),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if room.Price <= 0 {
		return nil, domain.Validationf("price must be at least 0.01")
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"hotel_id": hotelID,
		"room_id":  room.ID,
	}).Info("room created")
	return room, nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// ListRooms lists a hotel's rooms; f.HotelID is overwritten with hotelID.
func (s *Service) ListRooms(ctx context.Context, hotelID int64, f domain.RoomFilter) ([]domain.Room, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, domain.Validationf("unknown room status %q", f.Status)
	}
	if !f.Sort.IsValid() {
		return nil, domain.Validationf("unknown sort %q", f.Sort)
	}
	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return nil, domain.Validationf("price bounds must not be negative")
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return nil, domain.Validationf("min_price must not exceed max_price")
	}
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}
	f.HotelID = hotelID
	return s.rooms.List(ctx, f)
}

// CountRooms counts a hotel's rooms in status, available when empty.
func (s *Service) CountRooms(ctx context.Context, hotelID int64, status domain.RoomStatus) (int64, error) {
	if status == "" {
		status = domain.RoomAvailable
	}
	if !status.IsValid() {
		return 0, domain.Validationf("unknown room status %q", status)
	}
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return 0, err
	}
	return s.rooms.CountByStatus(ctx, hotelID, status)
}

// UpdateRoom changes name, type, description or price. Existing reservations
// keep their price until their dates change.
func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, domain.Validationf("name must not be empty")
		}
		room.Name = *req.Name
	}
	if req.Type != nil {
		room.Type = *req.Type
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Price != nil {
		room.Price = roundPrice(*req.Price)
		if room.Price <= 0 {
			return nil, domain.Validationf("price must be at least 0.01")
		}
	}
	room.UpdatedAt = domain.NormalizeTime(s.clock.Now())

	if err := s.rooms.UpdateDetails(ctx, room); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"room_id": room.ID,
		"price":   room.Price,
	}).Info("room updated")
	return room, nil
}

func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
