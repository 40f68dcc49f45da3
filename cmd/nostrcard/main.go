package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"nostrcard/engine/actors"
	"nostrcard/engine/library"
	"nostrcard/messaging/eventconductor"
	"nostrcard/messaging/relays"
	"nostrcard/state/views"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: nostrcard <npub or hex public key>")
		os.Exit(2)
	}
	identity, err := library.ParseIdentity(os.Args[1])
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	conf := viper.New()
	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)

	pool := relays.NewPool()
	defer pool.Close()
	store := views.NewStore()
	aggregator := eventconductor.New(pool, store, actors.AggregatorOptions(conf))
	scope := aggregator.NewScope(context.Background())
	defer scope.Close()

	d := newDashboard(store)
	for _, c := range []*card{
		{title: "ACCOUNT DATA", kind: library.KindProfile},
		{title: "BASIC RELAYS", kind: library.KindRelayList},
	} {
		c.key, err = scope.Watch(identity, c.kind)
		if err != nil {
			library.LogCLI(err, 0)
			return
		}
		d.add(c)
	}
	sleeper(actors.Shutdown)
	go cliListener(d, actors.Shutdown)
	d.run(actors.GetTerminateChan())
	fmt.Println("bye")
}
