// Package models declares the application's value objects: Money and
// Payment.
package models
