// Command webcompress encodes files with the webcompress codec and runs or
// talks to the loopback page-saving service.
//
//	webcompress encode [-legacy] IN OUT
//	webcompress decode [-legacy] IN OUT
//	webcompress serve
//	webcompress add URL | remove URL | view URL | list | stop
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axiomhq/webcompress"
	"github.com/axiomhq/webcompress/config"
	"github.com/axiomhq/webcompress/logger"
	"github.com/axiomhq/webcompress/server"
	"github.com/axiomhq/webcompress/store"
)

const clientTimeout = 30 * time.Second

var errUsage = errors.New("usage: webcompress encode|decode|serve|add|remove|view|list|stop [args]")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "encode", "decode":
		return transcode(cmd, args)
	case "serve":
		return serve()
	case "add", "remove", "view":
		if len(args) != 1 {
			return fmt.Errorf("usage: webcompress %s URL", cmd)
		}
		method := http.MethodPost
		path := "/" + cmd
		if cmd == "view" {
			method = http.MethodGet
		}
		return call(method, path+"?url="+url.QueryEscape(args[0]))
	case "list":
		return call(http.MethodGet, "/list")
	case "stop":
		return call(http.MethodPost, "/stop")
	default:
		return errUsage
	}
}

func transcode(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	legacy := fs.Bool("legacy", false, "use sentinel framing without a pad count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: webcompress %s [-legacy] IN OUT", cmd)
	}
	in, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	var opts []webcompress.Option
	if *legacy {
		opts = append(opts, webcompress.WithFraming(webcompress.FramingSentinel))
	}
	codec := webcompress.NewCodec(opts...)
	var out []byte
	if cmd == "encode" {
		out, err = codec.Encode(in)
	} else {
		out, err = codec.Decode(in)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", cmd, fs.Arg(0), err)
	}
	return os.WriteFile(fs.Arg(1), out, 0o644)
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New()

	var opts []webcompress.Option
	if cfg.LegacyFormat {
		opts = append(opts, webcompress.WithFraming(webcompress.FramingSentinel))
	}
	st, err := store.Open(cfg.CacheDir,
		store.WithCacheSize(cfg.CacheSize),
		store.WithCodec(webcompress.NewCodec(opts...)),
		store.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	h := server.NewHandler(st, &http.Client{Timeout: clientTimeout}, logg)
	return server.Run(ctx, cfg.Addr, h, logg)
}

// call sends one request to the running service and copies the response
// body to stdout.
func call(method, target string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, "http://"+cfg.Addr+target, nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: clientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("service at %s: %w (is `webcompress serve` running?)", cfg.Addr, err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return err
	}
	fmt.Println()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s", method, target, resp.Status)
	}
	return nil
}
