// Package logger builds *slog.Logger instances for tenantkit applications.
//
// New creates a logger from functional options: output format (json or
// text), minimum level, static attributes and ContextExtractor callbacks.
// Extractors run on every record and pull request-scoped values such as the
// resolved tenant id out of the context, so handlers never pass them by hand.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment("production", "billing"),
//		logger.WithContextExtractors(tenant.LoggerExtractors()...),
//	)
//	logger.SetAsDefault(log)
//
//	log.WarnContext(ctx, "contributor failed",
//		logger.Contributor("header_id"),
//		logger.Error(err),
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Helpers that take an error or a nullable id return an empty attribute for
// nil input, which slog drops.
//
// Library components accept a logger through options and fall back to
// Discard, so nothing is written unless the host application opts in.
package logger
