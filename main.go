package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	intconfig "seatreserve/internal/config"
	router "seatreserve/internal/http"
	"seatreserve/internal/repositories"
	"seatreserve/internal/services"
	"seatreserve/internal/utils"
)

func main() {
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := services.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	env := intconfig.LoadEnv()
	utils.SetLogger(utils.NewLogger(os.Stdout, env.LogLevel))
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	if err := run(env); err != nil {
		utils.LogError("", "main", "run", err)
		os.Exit(1)
	}
}

func run(env intconfig.Env) error {
	store, db, err := openStore(env)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	locker, closeLocker, err := openLocker(env, db)
	if err != nil {
		return err
	}
	defer closeLocker()

	if env.SeedFile != "" {
		if err := seed(store, env.SeedFile); err != nil {
			return err
		}
	}

	deps := router.Deps{
		Store:  store,
		Locker: locker,
		Auth: services.AuthService{
			Secret:       []byte(env.JWTSecret),
			Username:     env.AdminUsername,
			PasswordHash: env.AdminPasswordHash,
		},
	}
	if env.JWTSecret == "" || env.AdminPasswordHash == "" {
		utils.Logger().Warn("JWT_SECRET or ADMIN_PASSWORD_HASH not set; login and write endpoints will reject every request")
	}
	r := router.NewRouter(env, deps)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.Compress(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		utils.LogEvent("", "main", "listen", "server started",
			"addr", env.AppAddr, "store", env.StoreDriver, "lock", env.LockDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	utils.LogEvent("", "main", "shutdown", "shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	utils.LogEvent("", "main", "shutdown", "server stopped")
	return nil
}

func openStore(env intconfig.Env) (services.Store, *sql.DB, error) {
	switch env.StoreDriver {
	case "", "memory":
		return repositories.NewMemoryStore(), nil, nil
	case "mysql":
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repositories.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repositories.NewMySQLStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", env.StoreDriver)
	}
}

func openLocker(env intconfig.Env, db *sql.DB) (services.TripLocker, func(), error) {
	noop := func() {}
	switch env.LockDriver {
	case "", "local":
		return services.NewLocalTripLocker(), noop, nil
	case "mysql":
		if db == nil {
			return nil, noop, errors.New("LOCK_DRIVER=mysql needs STORE_DRIVER=mysql")
		}
		return services.MySQLTripLocker{DB: db, Timeout: env.LockTimeout}, noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: env.RedisAddr, Password: env.RedisPassword})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return services.RedisTripLocker{Client: client, Wait: env.LockTimeout}, func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown LOCK_DRIVER %q", env.LockDriver)
	}
}

// seed loads the fixture file. Entities that already exist, e.g. in MySQL after
// a restart, are left as they are.
func seed(store services.Store, path string) error {
	data, err := intconfig.LoadSeed(path)
	if err != nil {
		return err
	}
	ctx := context.Background()
	catalog := services.CatalogService{Store: store}
	loaded, err := catalog.SeedLoaded(ctx, data)
	if err != nil {
		return err
	}
	if loaded {
		utils.LogEvent("", "main", "seed", "seed skipped, already loaded", "path", path)
		return nil
	}
	return catalog.Seed(ctx, data)
}
