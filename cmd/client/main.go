package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dailyword/internal/client/cli"
	"github.com/dmitrijs2005/dailyword/internal/client/client"
	"github.com/dmitrijs2005/dailyword/internal/client/config"
	"github.com/dmitrijs2005/dailyword/internal/flagx"
)

func main() {

	cfg := config.LoadConfig()

	c, err := client.New(cfg.ServerEndpointAddr, cfg.AccessToken, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	app := cli.NewApp(c, cfg.Version, os.Stdout)

	if err := app.Run(context.Background(), flagx.Positional(os.Args[1:], config.Flags)); err != nil {
		log.Printf("%v", err)
		c.Close()
		os.Exit(1)
	}

}
