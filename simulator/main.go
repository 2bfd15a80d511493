// Command simulator plays unattended games against a running server.
//
// It drives the REST API the same way a browser client would: create a
// session, poll the state, and submit whichever command the policy picks
// until somebody wins or the turn budget runs out. Useful as a smoke test
// for rule set changes and as a rough balance probe (how long does a game
// take, how often does the grant path trigger).
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Mirror structs for the wire format. Only the fields the policy reads are
// declared; everything else in the server's JSON is ignored on decode.

type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Money       int    `json:"money"`
	ChaosTokens int    `json:"chaos_tokens"`
}

type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type ActivePrompt struct {
	TileID   int       `json:"tile_id"`
	Question *Question `json:"question,omitempty"`
	Rent     int       `json:"rent,omitempty"`
}

type ExamState struct {
	Questions []Question `json:"questions"`
	Index     int        `json:"index"`
	Score     int        `json:"score"`
	Mistakes  int        `json:"mistakes"`
	Waiting   bool       `json:"waiting"`
}

type GameState struct {
	Players    []Player      `json:"players"`
	Turn       int           `json:"turn"`
	TotalTurns int           `json:"total_turns"`
	Stage      string        `json:"stage"`
	Prompt     *ActivePrompt `json:"prompt,omitempty"`
	Exam       *ExamState    `json:"exam,omitempty"`
	Winner     *int          `json:"winner,omitempty"`
}

func (s *GameState) CurrentPlayer() *Player {
	return &s.Players[s.Turn]
}

type SessionResponse struct {
	ID        string     `json:"id"`
	Dataset   string     `json:"dataset"`
	RulesName string     `json:"rules_name"`
	GameState *GameState `json:"game_state"`
}

type Command struct {
	Type   string `json:"type"`
	Option int    `json:"option,omitempty"`
	TileID int    `json:"tile_id,omitempty"`
}

type CommandResult struct {
	GameState *GameState `json:"game_state"`
	Stage     string     `json:"stage"`
	Feedback  string     `json:"feedback,omitempty"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(dataset, rules string, players int, seed int64) (*GameState, error) {
	req := map[string]interface{}{
		"dataset": dataset,
		"players": players,
	}
	if rules != "" {
		req["rules"] = rules
	}
	if seed != 0 {
		req["seed"] = seed
	}
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state GameState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &state, nil
}

func (c *Client) Send(cmd Command) (*GameState, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/command", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("send command: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("command %s rejected: %s - %s", cmd.Type, resp.Status, string(respBody))
	}

	var result CommandResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse command result: %w", err)
	}
	return result.GameState, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	dataset := flag.String("dataset", "sample", "Dataset name for new sessions")
	rules := flag.String("rules", "", "Rule set name (empty = server default)")
	players := flag.Int("players", 2, "Number of players")
	seed := flag.Int64("seed", 0, "Fixed RNG seed for the session (0 = random)")
	policySeed := flag.Int64("policy-seed", 0, "Seed for the bot's own choices (0 = time-based)")
	continueSession := flag.String("continue", "", "Resume an existing session by ID")
	maxCommands := flag.Int("max-commands", 5000, "Maximum commands per game")
	maxGames := flag.Int("max-games", 1, "Number of games to play")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between commands in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)
	policy := NewRandomPolicy(*policySeed)

	wins := 0
	for gameNum := 1; gameNum <= *maxGames; gameNum++ {
		var state *GameState
		var err error

		if *continueSession != "" && gameNum == 1 {
			client.sessionID = *continueSession
			log.Printf("🔄 Resuming session: %s", client.sessionID)
			state, err = client.GetState()
			if err != nil {
				log.Fatalf("Failed to resume session: %v", err)
			}
		} else {
			state, err = client.CreateSession(*dataset, *rules, *players, *seed)
			if err != nil {
				log.Fatalf("Failed to create session: %v", err)
			}
			log.Printf("✨ Session created: %s (dataset=%s, players=%d)", client.sessionID, *dataset, len(state.Players))
		}

		log.Printf("\n=== 🎲 Game %d/%d ===", gameNum, *maxGames)

		commandCount := 0
		for state.Winner == nil && commandCount < *maxCommands {
			cmd, ok := policy.NextCommand(state)
			if !ok {
				log.Printf("⚠️  No legal command in stage %q", state.Stage)
				break
			}

			if *verbose && commandCount%50 == 0 {
				p := state.CurrentPlayer()
				log.Printf("Turn %d | stage=%s | %s $%d @tile %d",
					state.TotalTurns, state.Stage, p.Name, p.Money, p.Position)
			}

			newState, err := client.Send(cmd)
			if err != nil {
				// A rejected command usually means the state advanced under
				// us (another client, or a stale read). Refresh and go on.
				if *verbose {
					log.Printf("Command failed: %v", err)
				}
				newState, err = client.GetState()
				if err != nil {
					log.Fatalf("Failed to refresh state: %v", err)
				}
			}
			state = newState
			commandCount++

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Game %d: commands=%d, turns=%d", gameNum, commandCount, state.TotalTurns)
		for _, p := range state.Players {
			marker := " "
			if state.Winner != nil && *state.Winner == p.ID {
				marker = "🏆"
			}
			log.Printf("  %s %s: $%d, %d chaos tokens", marker, p.Name, p.Money, p.ChaosTokens)
		}

		if state.Winner != nil {
			wins++
			log.Printf("🎉 %s won after %d turns", state.Players[*state.Winner].Name, state.TotalTurns)
		} else {
			log.Printf("⏱️  Game %d hit the command budget without a winner", gameNum)
		}
	}

	log.Printf("\nFinished: %d/%d games decided", wins, *maxGames)
	if wins == 0 {
		os.Exit(1)
	}
}
