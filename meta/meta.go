// meta/meta.go
package meta

import "time"

// TOTAL_TITANS is the size of each player's titan pool.
const TOTAL_TITANS = 4

// CIRCUITS is the number of concentric rings on the board.
const CIRCUITS = 3

// NODES_PER_CIRCUIT is the number of nodes on each ring.
const NODES_PER_CIRCUIT = 6

// TURN_TIME is the default per-turn time budget.
const TURN_TIME = 30 * time.Second

// GAME_TIME is the default match-wide time budget.
const GAME_TIME = 5 * time.Minute

// TICK_INTERVAL is the period of the host timer loop.
const TICK_INTERVAL = 1 * time.Second
