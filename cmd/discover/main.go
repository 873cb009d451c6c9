package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/clients/serpapi"
	"github.com/swipebite/backend/internal/database"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/service"
	"github.com/swipebite/backend/internal/types"
	"github.com/swipebite/backend/internal/worker"
)

// discover runs one restaurant discovery pass around a coordinate and
// then fills in missing dish images, without going through the API.
func main() {
	lat := flag.Float64("lat", 0, "latitude to search around")
	lng := flag.Float64("lng", 0, "longitude to search around")
	query := flag.String("query", "", "search query, defaults to restaurants")
	cuisine := flag.String("cuisine", "", "cuisine hint for discovered restaurants")
	limit := flag.Int("limit", 10, "maximum places to ingest")
	sweep := flag.Bool("sweep", true, "fetch images for dishes that have none")
	flag.Parse()

	if *lat == 0 && *lng == 0 {
		log.Fatal("both -lat and -lng are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(string(config.GetEnvironment()))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.New(cfg, appLog)
	if err != nil {
		appLog.Fatalw("failed to connect to database", "error", err)
	}

	serpClient := serpapi.New(cfg, appLog)
	if !serpClient.IsConfigured() {
		appLog.Fatalw("SERPAPI_KEY is not set")
	}

	var s3cfg *config.S3Config
	s3cfg, err = config.NewS3Config(context.Background(), cfg)
	if err != nil {
		appLog.Warnw("s3 unavailable, dish images will link to their source", "error", err)
		s3cfg = nil
	}

	imageService := service.NewDishImageService(db, serpClient, s3cfg, appLog)
	pool := worker.NewPool(imageService, cfg.ImageWorkerCount, cfg.ImageQueueSize, appLog)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	pool.Start(ctx)

	discovery := service.NewDiscoveryService(db, serpClient, pool, appLog)
	result, err := discovery.Discover(ctx, &types.DiscoverRequest{
		Latitude:  lat,
		Longitude: lng,
		Query:     *query,
		Cuisine:   *cuisine,
		Limit:     *limit,
	})
	if err != nil {
		appLog.Fatalw("discovery failed", "error", err)
	}

	appLog.Infow("discovery run finished",
		"places_found", result.PlacesFound,
		"restaurants_created", result.RestaurantsCreated,
		"restaurants_updated", result.RestaurantsUpdated,
		"dishes_created", result.DishesCreated,
		"dishes_linked", result.DishesLinked,
	)

	if *sweep {
		queued, err := pool.Sweep(ctx)
		if err != nil {
			appLog.Errorw("image sweep failed", "error", err)
		} else {
			appLog.Infow("image sweep queued", "dishes", queued)
		}
	}

	// Let the workers drain the queue before stopping.
	for pool.Pending() > 0 && ctx.Err() == nil {
		time.Sleep(500 * time.Millisecond)
	}
	pool.Shutdown()
}
