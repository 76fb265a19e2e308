package main

// General API documentation for swaggo. The served document is registered by
// internal/httpapi/apidocs.
//
// @title           evbus API
// @version         1.0
// @description     HTTP API for an in-process event dispatcher and its overlay layer.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
