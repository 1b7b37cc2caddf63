// Package slog provides logging decorators for seocrawl services.
package slog
