// Command seed creates a demo hotel with rooms and prints bearer tokens for
// an admin, a manager and a guest.
package main

import (
	"context"
	"fmt"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/pkg/clock"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"
)

var demoRooms = []catalog.CreateRoomRequest{
	{Number: "101", Name: "Standard Single", Type: "single", Price: 79},
	{Number: "102", Name: "Standard Double", Type: "double", Price: 100},
	{Number: "103", Name: "Standard Double", Type: "double", Price: 100},
	{Number: "201", Name: "Junior Suite", Type: "suite", Price: 180, Description: "Sea view, king bed"},
	{Number: "202", Name: "Family Room", Type: "family", Price: 150},
	{Number: "301", Name: "Penthouse", Price: 420, Status: domain.RoomMaintenance},
}

var demoUsers = []struct {
	id   int64
	role domain.UserRole
}{
	{1, domain.RoleAdmin},
	{2, domain.RoleManager},
	{3, domain.RoleGuest},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info").WithError(err).Fatal("config")
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	ctx := context.Background()
	svc := catalog.NewService(repository.NewHotelRepository(db), repository.NewRoomRepository(db), clock.Real{}, log)

	hotel, err := svc.CreateHotel(ctx, catalog.CreateHotelRequest{Name: "Seaside Grand", Address: "1 Ocean Drive"})
	if err != nil {
		log.WithError(err).Fatal("create hotel")
	}
	for _, req := range demoRooms {
		room, err := svc.CreateRoom(ctx, hotel.ID, req)
		if err != nil {
			log.WithError(err).WithField("number", req.Number).Fatal("create room")
		}
		log.WithField("room_id", room.ID).WithField("number", room.Number).Info("room created")
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	fmt.Printf("hotel_id=%d\n", hotel.ID)
	for _, u := range demoUsers {
		token, err := j.GenerateToken(u.id, string(u.role))
		if err != nil {
			log.WithError(err).Fatal("generate token")
		}
		fmt.Printf("%s (user %d): %s\n", u.role, u.id, token)
	}
}
