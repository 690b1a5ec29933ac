// Command soundrip is the CLI entry point: it runs the bot, manages the
// configuration file, checks external dependencies, and shows the
// conversion history.
package main
