package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags. The server and the client read
// the same set and ignore what they do not use.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-s lesson server address the client connects to
//	-u roster name the client logs in with
//	-l lesson file path
//	-d change log database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "8h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-dial-timeout sync handshake timeout
//	-reconnect redial after the sync connection drops
//	-monotonic drop out-of-order updates
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var adapterAddress string
	var user string
	var lessonFile string
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var dialTimeout time.Duration
	var reconnect bool
	var monotonic bool

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&adapterAddress, "s", "", "Lesson server address")
	flag.StringVar(&user, "u", "", "Roster name to log in with")
	flag.StringVar(&lessonFile, "l", "", "Lesson file path")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 8h)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&dialTimeout, "dial-timeout", 0, "Sync handshake timeout")
	flag.BoolVar(&reconnect, "reconnect", false, "Redial after the sync connection drops")
	flag.BoolVar(&monotonic, "monotonic", false, "Drop out-of-order updates")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Lesson: Lesson{
			File: lessonFile,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
			User:           user,
		},
		Sync: Sync{
			DialTimeout:       dialTimeout,
			Reconnect:         reconnect,
			MonotonicVersions: monotonic,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
