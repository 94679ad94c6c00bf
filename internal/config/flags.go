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

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-data-dir submission storage directory
//	-chain-file hash chain file path
//	-d evidence database DSN
//	-c/-config json file path with configs
//	-master-key field encryption master key
//	-token-sign-key download token signing key
//	-token-issuer download token issuer name
//	-retention-days submission retention window in days
//	-tsa-url trusted timestamp authority base URL
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var dataDir string
	var chainFile string
	var databaseDSN string
	var jsonConfigPath string
	var masterKey string
	var tokenSignKey string
	var tokenIssuer string
	var retentionDays int
	var tsaURL string
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&dataDir, "data-dir", "", "Submission storage directory")
	flag.StringVar(&chainFile, "chain-file", "", "Hash chain file path")
	flag.StringVar(&databaseDSN, "d", "", "Evidence database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&masterKey, "master-key", "", "Field encryption master key")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Download token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Download token issuer")
	flag.IntVar(&retentionDays, "retention-days", 0, "Submission retention window in days")
	flag.StringVar(&tsaURL, "tsa-url", "", "Trusted timestamp authority base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			MasterKey:    masterKey,
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Storage: Storage{
			DataDir:       dataDir,
			ChainFile:     chainFile,
			RetentionDays: retentionDays,
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Timestamp: Timestamp{
			URL: tsaURL,
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
// It validates the port range, checks IP correctness unless host is
// "localhost", and returns an error if the format or values are invalid.
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
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port

	return nil
}
