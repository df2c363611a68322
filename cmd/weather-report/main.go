package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	httpapi "github.com/i474232898/weather-report/internal/api/http"
	"github.com/i474232898/weather-report/internal/config"
	"github.com/i474232898/weather-report/internal/report"
	"github.com/i474232898/weather-report/internal/scheduler"
	"github.com/i474232898/weather-report/internal/weather"
	"github.com/i474232898/weather-report/internal/weather/providers"
)

const emptyCityMessage = "Please enter a valid city name."

// console is where the commands read the city from and print reports to.
type console struct {
	in  io.Reader
	out io.Writer
	// logs receives diagnostics when --verbose is set.
	logs io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newCommand(console{in: os.Stdin, out: os.Stdout, logs: os.Stderr})
	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCommand(con console) *cli.Command {
	return &cli.Command{
		Name:      "weather-report",
		Usage:     "Print current weather conditions for a city",
		ArgsUsage: "[city]",
		Flags:     []cli.Flag{verboseFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			con.setupLogging(cmd.Bool("verbose"))

			city := strings.Join(cmd.Args().Slice(), " ")
			if city == "" {
				var err error
				if city, err = con.prompt(); err != nil {
					return err
				}
			}
			return con.lookup(ctx, city, cmd.Bool("json"))
		},
		Commands: []*cli.Command{
			{
				Name:      "current",
				Usage:     "Look up the current weather for a city without prompting",
				ArgsUsage: "<city>",
				Flags:     []cli.Flag{verboseFlag(), jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					con.setupLogging(cmd.Bool("verbose"))
					return con.lookup(ctx, strings.Join(cmd.Args().Slice(), " "), cmd.Bool("json"))
				},
			},
			{
				Name:      "watch",
				Usage:     "Repeat the lookup for a city on an interval until interrupted",
				ArgsUsage: "<city>",
				Flags: []cli.Flag{
					verboseFlag(),
					jsonFlag(),
					&cli.DurationFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Time between lookups (default WATCH_INTERVAL or 15m)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					con.setupLogging(cmd.Bool("verbose"))
					return con.watch(ctx, strings.Join(cmd.Args().Slice(), " "), cmd.Duration("interval"), cmd.Bool("json"))
				},
			},
			{
				Name:  "serve",
				Usage: "Serve lookups over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on (default PORT or 8080)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					con.setupLogging(true)
					return con.serve(ctx, cmd.String("port"))
				},
			},
		},
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log diagnostics to stderr",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the report as JSON",
	}
}

func (c console) setupLogging(verbose bool) {
	if verbose && c.logs != nil {
		log.SetOutput(c.logs)
		return
	}
	log.SetOutput(io.Discard)
}

// prompt asks for a city and returns the raw line without its newline.
func (c console) prompt() (string, error) {
	fmt.Fprint(c.out, "Enter city name: ")

	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading city name: %w", err)
	}
	return line, nil
}

func (c console) lookup(ctx context.Context, city string, asJSON bool) error {
	svc, _, err := loadService()
	if err != nil {
		return err
	}

	result, err := svc.Current(ctx, city)
	if errors.Is(err, weather.ErrEmptyCity) {
		fmt.Fprintln(c.out, emptyCityMessage)
		return nil
	}
	if err != nil {
		return err
	}
	return c.render(result, asJSON)
}

func (c console) watch(ctx context.Context, city string, interval time.Duration, asJSON bool) error {
	if _, err := weather.NewQuery(city); err != nil {
		fmt.Fprintln(c.out, emptyCityMessage)
		return nil
	}

	svc, cfg, err := loadService()
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = cfg.WatchInterval
	}

	log.Printf("INFO: watching %q every %s", city, interval)
	sched := scheduler.New(city, interval, cfg.HTTPTimeout+5*time.Second, svc.Current, func(r weather.WeatherResult) {
		if err := c.render(r, asJSON); err != nil {
			log.Printf("ERROR: rendering report: %v", err)
		}
	})
	return sched.Run(ctx)
}

func (c console) serve(ctx context.Context, port string) error {
	svc, cfg, err := loadService()
	if err != nil {
		return err
	}
	if port == "" {
		port = cfg.Port
	}

	app := httpapi.NewApp(svc)

	listenErr := make(chan error, 1)
	go func() {
		log.Printf("INFO: listening on :%s", port)
		listenErr <- app.Listen(":" + port)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listening on :%s: %w", port, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

func (c console) render(result weather.WeatherResult, asJSON bool) error {
	if asJSON {
		return report.RenderJSON(c.out, result)
	}
	return report.Render(c.out, result)
}

func loadService() (*weather.Service, *config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	httpCfg := providers.DefaultHTTPClientConfig()
	httpCfg.Client.Timeout = cfg.HTTPTimeout

	provider := providers.NewOpenWeatherProvider(httpCfg, cfg.BaseURL)
	return weather.NewService(provider, cfg.APIKey), cfg, nil
}
