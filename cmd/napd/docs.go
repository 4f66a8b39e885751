package main

// General API documentation for swaggo. Regenerate docs with
// `swag init -g cmd/napd/docs.go -o docs`.
//
// @title           napd API
// @version         1.0
// @description     HTTP API for system sleep/wake notifications and idle-sleep inhibition.
//
// @contact.name   napd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
