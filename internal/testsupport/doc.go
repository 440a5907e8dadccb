// Package testsupport builds configs, stores and clocks for package tests.
package testsupport
