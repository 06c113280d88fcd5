// Package server wires the HTTP surface of the gateway: the admin API
// under /@omnitron/api and the catch-all forwarding pipeline.
package server
