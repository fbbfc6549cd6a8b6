// swapctl is a command line front end for the battery swap API. It signs in,
// resolves a location, ranks nearby stations, and can book or collect a
// battery.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aklilumengesha/Battery-Swap/client"
	"github.com/aklilumengesha/Battery-Swap/internal/geocode"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("api", envOr("SWAP_API_URL", "http://localhost:8000"), "backend base URL")
	email := flag.String("email", os.Getenv("SWAP_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("SWAP_PASSWORD"), "account password")
	lat := flag.Float64("lat", 0, "latitude override")
	lon := flag.Float64("lon", 0, "longitude override")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	c := client.New(*baseURL, client.NewMemoryStore(), stateStore())

	if err := run(ctx, c, flag.Args(), *email, *password, *lat, *lon); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, args []string, email, password string, lat, lon float64) error {
	switch args[0] {
	case "stations":
		user, err := c.SignIn(ctx, email, password)
		if err != nil {
			return err
		}
		loc := resolveLocation(ctx, lat, lon)
		fmt.Printf("finding stations near %s (%v, %v)\n", loc.Name, loc.Latitude, loc.Longitude)
		stations, err := c.NearbyStations(ctx, user.PK, loc.Latitude, loc.Longitude)
		if err != nil {
			return err
		}
		for _, station := range stations {
			fmt.Printf("  #%d %-24s %-10s %d batteries\n",
				station.ID, station.Name, station.Distance, len(station.Batteries))
		}
		return nil

	case "book":
		if len(args) != 3 {
			return fmt.Errorf("usage: swapctl book <stationID> <batteryID>")
		}
		stationID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid station id %q", args[1])
		}
		batteryID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid battery id %q", args[2])
		}
		if _, err := c.SignIn(ctx, email, password); err != nil {
			return err
		}
		orderID, err := c.BookBattery(ctx, stationID, batteryID)
		if err != nil {
			return err
		}
		fmt.Printf("booked: order #%d\n", orderID)
		return nil

	case "orders":
		if _, err := c.SignIn(ctx, email, password); err != nil {
			return err
		}
		orders, err := c.Bookings(ctx)
		if err != nil {
			return err
		}
		for _, order := range orders {
			status := "booked"
			if order.IsCollected {
				status = "collected"
			}
			fmt.Printf("  #%d %-24s battery #%d %s\n",
				order.ID, order.Station.Name, order.Battery.ID, status)
		}
		return nil

	case "collect":
		if len(args) != 2 {
			return fmt.Errorf("usage: swapctl collect <orderID>")
		}
		orderID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}
		if _, err := c.SignIn(ctx, email, password); err != nil {
			return err
		}
		order, err := c.Collect(ctx, orderID)
		if err != nil {
			return err
		}
		fmt.Printf("collected: order #%d at %s\n", order.ID, order.Station.Name)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// resolveLocation prefers explicit flags, then the stored location, then the
// default fallback. Reverse geocoding runs only when a LocationIQ key is set.
func resolveLocation(ctx context.Context, lat, lon float64) client.Location {
	if lat != 0 && lon != 0 {
		return client.Location{Name: "custom", Latitude: lat, Longitude: lon}
	}

	var geocoder geocode.Geocoder
	if key := os.Getenv("SWAP_LOCATIONIQ_API_KEY"); key != "" {
		geocoder = geocode.NewLocationIQ(os.Getenv("SWAP_LOCATIONIQ_BASE_URL"), key, nil)
	}
	resolver := client.NewResolver(stateStore(), nil, geocoder, nil)
	return resolver.Resolve(ctx)
}

func stateStore() *client.FileStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return client.NewFileStore(filepath.Join(dir, "swapctl", "state.json"))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: swapctl [flags] <command>

commands:
  stations              rank nearby stations with available batteries
  book <station> <battery>   reserve a battery
  orders                list your bookings
  collect <order>       mark a booking as picked up

flags:`)
	flag.PrintDefaults()
}
