package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
)

// Default configuration file names of the launch scripts.
const (
	DefaultServerConfPath = "serverconf.toml"
	DefaultClientConfPath = "clientconf.toml"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// LaunchFlags are the command-line options shared by the server, client and
// launcher binaries. Each binary registers only the flags it uses.
type LaunchFlags struct {
	// ServerConfPath is the server configuration file (-c / -config on the
	// server binary, -server-config on the launcher).
	ServerConfPath string
	// ClientConfPath is the client configuration file (-c / -config on the
	// client binary, -client-config on the launcher).
	ClientConfPath string
	// Address overrides the configured address: listen_to for the server,
	// connect_to for the client.
	Address NetAddress
	// GLTFPath is an optional model loaded by the client before its main loop.
	GLTFPath string
	// Headless replaces the terminal UI with a log-only main loop.
	Headless bool
	// LogLevel sets the zerolog global level.
	LogLevel string
}

// Role selects which flags [ParseLaunchFlags] registers.
type Role int

const (
	RoleServer Role = iota
	RoleClient
	RoleLauncher
)

// ParseLaunchFlags parses args for the given role.
//
// Flags:
//
//	-c/-config        config file path (server and client)
//	-server-config    server config file path (launcher)
//	-client-config    client config file path (launcher)
//	-a                address override in format [host]:[port]
//	-gltf             glTF/GLB model to load (client and launcher)
//	-headless         run the client without the terminal UI
//	-log-level        zerolog level (debug, info, warn, error)
func ParseLaunchFlags(name string, role Role, args []string, output io.Writer) (*LaunchFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	lf := &LaunchFlags{
		ServerConfPath: DefaultServerConfPath,
		ClientConfPath: DefaultClientConfPath,
	}

	switch role {
	case RoleServer:
		fs.StringVar(&lf.ServerConfPath, "c", DefaultServerConfPath, "Server config file path")
		fs.StringVar(&lf.ServerConfPath, "config", DefaultServerConfPath, "Server config file path (alias)")
		fs.Var(&lf.Address, "a", "Listen address host:port (overrides the config)")
	case RoleClient:
		fs.StringVar(&lf.ClientConfPath, "c", DefaultClientConfPath, "Client config file path")
		fs.StringVar(&lf.ClientConfPath, "config", DefaultClientConfPath, "Client config file path (alias)")
		fs.Var(&lf.Address, "a", "Server address host:port (overrides the config)")
		fs.StringVar(&lf.GLTFPath, "gltf", "", "glTF model to load before the main loop")
		fs.BoolVar(&lf.Headless, "headless", false, "Run without the terminal UI")
	case RoleLauncher:
		fs.StringVar(&lf.ServerConfPath, "server-config", DefaultServerConfPath, "Server config file path")
		fs.StringVar(&lf.ClientConfPath, "client-config", DefaultClientConfPath, "Client config file path")
		fs.Var(&lf.Address, "a", "Address host:port for both listen_to and connect_to")
		fs.StringVar(&lf.GLTFPath, "gltf", "", "glTF model to load before the main loop")
		fs.BoolVar(&lf.Headless, "headless", false, "Run without the terminal UI")
	}
	fs.StringVar(&lf.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return lf, nil
}

// String returns a canonical host:port string for a NetAddress, or "" when
// neither Host nor Port are set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be within 1..65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(strings.Trim(host, "[]")); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
