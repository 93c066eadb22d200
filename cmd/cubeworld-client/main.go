// Command cubeworld-client is a minimal reference client: it logs in,
// answers pings, and reconnects with exponential backoff on drop.
package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/onuse/cubeworld/netserver"
	"github.com/onuse/cubeworld/session"
)

var (
	serverAddr string
	playerName string
	authToken  string
)

var rootCmd = &cobra.Command{
	Use:           "cubeworld-client",
	Short:         "Cubeworld reference client",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&serverAddr, "server", "localhost:8080", "server host:port")
	rootCmd.Flags().StringVar(&playerName, "name", "player", "player name to log in as")
	rootCmd.Flags().StringVar(&authToken, "token", "", "session auth token")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println("cubeworld-client:", err)
		os.Exit(1)
	}
}

func run() error {
	reconnect := session.NewReconnectState(session.DefaultReconnectConfig())
	reconnectToken := ""

	for {
		err := connectAndServe(&reconnectToken, reconnect)
		if err == nil {
			return nil
		}
		log.Printf("cubeworld-client: disconnected: %v", err)

		delay, ok := reconnect.NextDelay()
		if !ok {
			return fmt.Errorf("giving up after %d reconnect attempts", reconnect.Attempts())
		}
		log.Printf("cubeworld-client: reconnecting in %s (attempt %d)", delay, reconnect.Attempts())
		time.Sleep(delay)
	}
}

func connectAndServe(reconnectToken *string, reconnect *session.ReconnectState) error {
	u := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	loginEnv, err := netserver.Encode(netserver.TypeLoginRequest, netserver.LoginRequest{
		PlayerName:     playerName,
		AuthToken:      authToken,
		ReconnectToken: *reconnectToken,
	})
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(loginEnv); err != nil {
		return err
	}

	var respEnv netserver.Envelope
	if err := conn.ReadJSON(&respEnv); err != nil {
		return err
	}
	var resp netserver.LoginResponse
	if err := netserver.Decode(respEnv, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("login rejected: %s", resp.Message)
	}
	*reconnectToken = resp.ReconnectToken
	reconnect.Reset()
	log.Printf("cubeworld-client: logged in as player %d", resp.PlayerID)

	for {
		var env netserver.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return err
		}
		switch env.Type {
		case netserver.TypePing:
			var ping netserver.Ping
			if netserver.Decode(env, &ping) == nil {
				pong, _ := netserver.Encode(netserver.TypePong, netserver.Pong{TimestampMs: ping.TimestampMs, Sequence: ping.Sequence})
				conn.WriteJSON(pong)
			}
		case netserver.TypeChatMessage:
			var msg netserver.ChatMessage
			if netserver.Decode(env, &msg) == nil {
				log.Printf("[chat] %s: %s", msg.SenderName, msg.Content)
			}
		}
	}
}
