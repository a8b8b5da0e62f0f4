package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"citasmed/pkg/client"
)

func main() {
	apiFlag := flag.String("api", "", "URL base de la API (sustituye a CITAS_API_URL)")
	envFlag := flag.String("env", ".env", "Fichero .env con la configuración")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.Run(ctx, client.Options{APIURL: *apiFlag, EnvFile: *envFlag}); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
