package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bioctools/corpusload/internal/devdb"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a disposable corpus database container with the schema and loader
account applied, for local development of corpusload.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	var container *devdb.Container
	go func() {
		var err error
		container, err = devdb.StartMariaDB(context.Background())
		if err != nil {
			log.Fatalf("Failed to start dev database: %v\n", err)
		}
		log.Printf("Dev database ready\n")
		log.Printf("  DB_TYPE=mariadb DB_HOST=%s DB_PORT=%s DB_DATABASE=%s DB_USER=%s DB_PASSWORD=%s\n",
			container.Host, container.Port, container.Database, container.User, container.Password)
	}()

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating dev database...\n", sig)
	if container != nil {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("Failed to terminate dev database: %v\n", err)
		}
	}
}
