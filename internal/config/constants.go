package config

import "time"

// Base application details
const AppName = "deck"
const ConfigDirName = "deck"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "deck.log"

// Engine
const DefaultMaxHistory = 100
const DefaultDuplicateOffset = 15

// Server
const DefaultServerAddr = ":8080"
const ShutdownTimeout = 5 * time.Second

// Plugins
const DefaultAutosaveInterval = 2 * time.Second
