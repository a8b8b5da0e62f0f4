package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"citasmed/pkg/config"
	"citasmed/pkg/server"
)

func main() {
	addrFlag := flag.String("addr", "", "Dirección de escucha (sustituye a CITAS_SERVER_ADDR)")
	envFlag := flag.String("env", ".env", "Fichero .env con la configuración")
	flag.Parse()

	if warn := config.LoadEnv(*envFlag); warn != nil {
		fmt.Println("Advertencia:", warn)
	}
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
