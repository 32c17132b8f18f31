package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/friendwu/qubicly/client"
	"github.com/friendwu/qubicly/config"
	"github.com/friendwu/qubicly/crypto"
	"github.com/friendwu/qubicly/logger"
	"github.com/friendwu/qubicly/protocol"
	"github.com/urfave/cli/v2"
)

// dialNode resolves the node address from the command line, falling
// back to the configuration file when one is given.
func dialNode(c *cli.Context) (*client.Client, error) {
	host := c.String("node")
	port := c.Int("port")
	connect := config.DefaultConnectTimeout
	read := config.DefaultReadTimeout
	write := config.DefaultWriteTimeout

	if file := c.String("config"); file != "" {
		custom, err := config.Initialize(file)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(custom.Log.Level)
		if err := logger.SetFilter(custom.Log.Filter); err != nil {
			return nil, err
		}
		if custom.Node.Host != "" && !c.IsSet("node") {
			host = custom.Node.Host
		}
		if !c.IsSet("port") {
			port = custom.Node.Port
		}
		connect = custom.Client.ConnectTimeout
		read = custom.Client.ReadTimeout
		write = custom.Client.WriteTimeout
	}
	return client.DialTimeout(host, port, connect, read, write)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func tickInfoCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	info, err := node.GetTickInfo()
	if err != nil {
		return err
	}
	return printJSON(info)
}

func systemInfoCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	info, err := node.GetSystemInfo()
	if err != nil {
		return err
	}
	return printJSON(info)
}

func balanceCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	balance, err := node.GetBalance(crypto.Identity(c.String("identity")))
	if err != nil {
		return err
	}
	fmt.Printf("balance:\t%d\n", balance.Amount())
	return printJSON(balance)
}

func assetsCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	id := crypto.Identity(c.String("identity"))
	issued, err := node.GetIssuedAssets(id)
	if err != nil {
		return err
	}
	owned, err := node.GetOwnedAssets(id)
	if err != nil {
		return err
	}
	possessed, err := node.GetPossessedAssets(id)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"issued":    issued,
		"owned":     owned,
		"possessed": possessed,
	})
}

func computorsCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	computors, err := node.GetComputors()
	if err != nil {
		return err
	}
	fmt.Printf("epoch:\t%d\n", computors.Epoch)
	for i := range computors.PubKeys {
		fmt.Printf("%d\t%s\n", i, crypto.IdentityFromPubKey(computors.PubKeys[i], false))
	}
	return nil
}

func tickDataCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	data, err := node.GetTickData(uint32(c.Uint("tick")))
	if err != nil {
		return err
	}
	if data.IsEmpty() {
		fmt.Println("empty tick")
		return nil
	}
	fmt.Printf("tick:\t%d\nepoch:\t%d\ncomputor:\t%d\ntransactions:\t%d\n",
		data.Tick, data.Epoch, data.ComputorIndex, data.DigestCount())
	return nil
}

func tickTransactionsCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	txs, err := node.GetTickTransactions(uint32(c.Uint("tick")))
	if err != nil {
		return err
	}
	for _, tx := range txs {
		id, err := tx.ID()
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s -> %s\t%d\n", id,
			crypto.IdentityFromPubKey(tx.Source, false),
			crypto.IdentityFromPubKey(tx.Destination, false), tx.Amount)
	}
	return nil
}

func quorumCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	votes, err := node.GetQuorumVotes(uint32(c.Uint("tick")))
	if err != nil {
		return err
	}
	fmt.Printf("votes:\t%d of %d needed\n", len(votes), protocol.MinimumQuorumVotes)
	return printJSON(votes)
}

func txStatusCmd(c *cli.Context) error {
	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	status, err := node.GetTransactionStatus(uint32(c.Uint("tick")))
	if err != nil {
		return err
	}
	return printJSON(status)
}

func sendCmd(c *cli.Context) error {
	sub, err := crypto.SubSeed(c.String("seed"))
	if err != nil {
		return err
	}
	kp, err := crypto.Ed25519Factory{}.FromSubSeed(sub)
	if err != nil {
		return err
	}
	destination, err := crypto.Identity(c.String("destination")).PubKey()
	if err != nil {
		return err
	}

	node, err := dialNode(c)
	if err != nil {
		return err
	}
	defer node.Close()

	info, err := node.GetTickInfo()
	if err != nil {
		return err
	}
	tick := info.Tick + uint32(c.Uint("offset"))

	tx := protocol.NewTransaction(kp.PublicKey(), destination, c.Int64("amount"), tick)
	if err := tx.SignWith(kp); err != nil {
		return err
	}
	if err := node.BroadcastTransaction(tx); err != nil {
		return err
	}
	id, err := tx.ID()
	if err != nil {
		return err
	}
	fmt.Printf("transaction:\t%s\nscheduled tick:\t%d\n", id, tick)
	return nil
}

func createAddressCmd(c *cli.Context) error {
	buf := make([]byte, 55)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	seed := make([]byte, 55)
	for i, b := range buf {
		seed[i] = 'a' + b%26
	}
	sub, err := crypto.SubSeed(string(seed))
	if err != nil {
		return err
	}
	kp, err := crypto.Ed25519Factory{}.FromSubSeed(sub)
	if err != nil {
		return err
	}
	pub := kp.PublicKey()
	fmt.Printf("seed:\t%s\n", seed)
	fmt.Printf("identity:\t%s\n", crypto.IdentityFromPubKey(kp.PublicKey(), false))
	fmt.Printf("public key:\t%s\n", hex.EncodeToString(pub[:]))
	return nil
}
