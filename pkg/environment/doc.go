// Package environment identifies the deployment stage (development, staging,
// production) and carries it through request contexts. Handlers use it to
// decide how much failure detail reaches the client.
package environment
