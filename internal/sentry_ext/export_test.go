package sentry_ext

// CoreLoggerPackage exposes the hard-coded import path for tests.
var CoreLoggerPackage = coreLoggerPackage
