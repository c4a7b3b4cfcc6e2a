// Command nostimintd runs a single-node nostimint federation (one server
// peer, threshold zero) together with a client CLI, for local development
// and manual testing of the sign-note flow without a real federation host.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fedimint-nostimint/nostimint/internal/cli"
	"github.com/fedimint-nostimint/nostimint/internal/client"
	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/config"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
	"github.com/fedimint-nostimint/nostimint/internal/hostdemo"
	"github.com/fedimint-nostimint/nostimint/internal/server"
	boltstore "github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb/bbolt"
	pebblestore "github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb/pebble"
)

func main() {
	log := logrus.New()

	serverCfg, err := config.LoadServerConfig(os.Getenv("NOSTIMINT_SERVER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	clientCfg, err := config.LoadClientConfig(os.Getenv("NOSTIMINT_CLIENT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if lvl, err := logrus.ParseLevel(serverCfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	serverDB, err := pebblestore.Open(serverCfg.DataDir + "/server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer serverDB.Close()

	share := crypto.GenerateSecretKeyShare()
	consensus := server.ConsensusConfig{
		PublicKeyShares: map[common.PeerID]crypto.PublicKeyShare{0: share.PublicKeyShare()},
		TxFee:           common.Amount(serverCfg.TxFeeMsat),
	}
	srvCfg := server.Config{
		Private:   server.PrivateConfig{PrivateKeyShare: share},
		Consensus: consensus,
	}
	if err := server.ValidateConfig(0, srvCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.New(0, srvCfg, serverDB, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := srv.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	clientPubConfig, err := consensus.ClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	clientDB, err := boltstore.Open(clientCfg.DataDir+"/client.db", boltstore.DefaultBucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer clientDB.Close()

	key, err := crypto.GenerateAccountKeyPair()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fed := hostdemo.NewLocalFederation(srv)
	clientMod := client.New(clientPubConfig, key, clientDB, fed, client.DefaultEventBuilder{}, fed, log)
	clientMod.SetOutcomeTimeout(clientCfg.OutcomeTimeout)

	root := cli.NewRootCmd(clientMod)
	cli.Execute(root)
}
