//go:build !darwin

package main

func sleeper(onSleep func()) {}
