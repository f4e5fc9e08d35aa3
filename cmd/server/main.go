package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	fakecredentialsrepo "github.com/jrsteele09/survey-admin/credentials/repofake"
	fakecustomerrepo "github.com/jrsteele09/survey-admin/customers/repofake"
	"github.com/jrsteele09/survey-admin/internal/config"
	"github.com/jrsteele09/survey-admin/internal/logger"
	"github.com/jrsteele09/survey-admin/server"
	"github.com/jrsteele09/survey-admin/session"
	"github.com/jrsteele09/survey-admin/store/sqlite"
	fakeuserrepo "github.com/jrsteele09/survey-admin/users/repofake"
	"github.com/rs/zerolog/log"
)

const janitorInterval = time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logger.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, options, closeAll, err := dependencies(ctx, c)
	if err != nil {
		return err
	}
	defer closeAll()

	handler, err := server.New(ctx, c, repos, options...)
	if err != nil {
		return err
	}
	go handler.RunJanitor(ctx, janitorInterval)

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// dependencies builds the repositories and optional session denylist selected
// by configuration.
func dependencies(ctx context.Context, c config.Config) (server.Repos, []server.Option, func(), error) {
	var (
		options []server.Option
		closers []func() error
	)
	closeAll := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn().Err(err).Msg("close failed")
			}
		}
	}

	var repos server.Repos
	switch c.GetStoreDriver() {
	case "memory":
		log.Warn().Msg("STORE_DRIVER=memory: data is lost on restart")
		repos = server.Repos{
			Users:       fakeuserrepo.NewFakeUserRepo(),
			Credentials: fakecredentialsrepo.NewFakeCredentialsRepo(),
			Customers:   fakecustomerrepo.NewFakeCustomerRepo(),
		}
	case "sqlite", "":
		st, err := sqlite.Open(ctx, c.GetDatabasePath())
		if err != nil {
			return server.Repos{}, nil, nil, err
		}
		closers = append(closers, st.Close)
		options = append(options, server.WithHealthCheck("database", st.Ping))
		repos = server.Repos{Users: st.Users(), Credentials: st.Credentials(), Customers: st.Customers()}
	default:
		return server.Repos{}, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", c.GetStoreDriver())
	}

	switch c.GetSessionDenylist() {
	case "":
	case "memory":
		options = append(options, server.WithDenylist(session.NewMemoryDenylist()))
	case "redis":
		d, err := session.NewRedisDenylistFromURL(c.GetRedisURL())
		if err != nil {
			closeAll()
			return server.Repos{}, nil, nil, err
		}
		closers = append(closers, d.Close)
		options = append(options, server.WithDenylist(d), server.WithHealthCheck("redis", d.Ping))
	default:
		closeAll()
		return server.Repos{}, nil, nil, fmt.Errorf("unknown SESSION_DENYLIST %q", c.GetSessionDenylist())
	}

	return repos, options, closeAll, nil
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
