package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/service"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Science Around the Board",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Science Around the Board - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Answer microbiology questions to buy lab tiles around a Monopoly-style board.
Win by passing the certification exams on all four corner milestones.

AVAILABLE TOOLS:
- create_session: Start a new game from a question dataset
- get_session: Get session details
- list_sessions: List all active sessions
- game_state: Get current game state (board, players, active question)
- command: Submit a player action (roll, answer, buy, skip, ...)
- export_log: Download the session's event log as CSV
- list_configs: List available rule set presets
- list_datasets: List available question datasets
- list_topics: List the big topics and modules inside a dataset
- game_instructions: Get comprehensive game instructions and rules

NOTE: Which commands are legal depends on the current stage. Call game_state
first and read the "Legal commands" line before submitting a command.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session from a question dataset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dataset": map[string]interface{}{
					"type":        "string",
					"description": "Dataset identifier (see list_datasets)",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Big topic filter (optional, see list_topics)",
				},
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module filter within the topic (optional)",
				},
				"players": map[string]interface{}{
					"type":        "integer",
					"description": "Number of players, 1-4 (default 1)",
				},
				"rules": map[string]interface{}{
					"type":        "string",
					"description": "Rule set preset name (optional, see list_configs)",
				},
			},
			Required: []string{"dataset"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state: players, board ownership, stage, and the active question if one is pending",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Submit a player action. Legal types depend on the current stage: roll, answer, buy, skip, start_exam, decline, accept_challenge, pay_full_fee, next, quit_exam, acknowledge, upgrade, liquidate, apply_for_grant, buy_chaos_token, use_chaos_token.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"type": map[string]interface{}{
					"type": "string",
					"enum": []string{
						"roll", "answer", "buy", "skip", "start_exam", "decline",
						"accept_challenge", "pay_full_fee", "next", "quit_exam",
						"acknowledge", "upgrade", "liquidate", "apply_for_grant",
						"buy_chaos_token", "use_chaos_token",
					},
					"description": "Command type",
				},
				"option": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based answer index (required for 'answer')",
				},
				"tile_id": map[string]interface{}{
					"type":        "integer",
					"description": "Target tile (required for 'upgrade', 'liquidate', and 'use_chaos_token')",
				},
			},
			Required: []string{"session_id", "type"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "export_log",
		Description: "Export the session's event log as CSV text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleExportLog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule set presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_datasets",
		Description: "List available question datasets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDatasets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_topics",
		Description: "List the big topics and modules inside a dataset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dataset": map[string]interface{}{
					"type":        "string",
					"description": "Dataset identifier",
				},
			},
			Required: []string{"dataset"},
		},
	}, c.handleListTopics)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// apiCallRaw fetches a non-JSON response body (CSV export).
func (c *Client) apiCallRaw(path string) ([]byte, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	body := map[string]interface{}{}
	if dataset, _ := args["dataset"].(string); dataset != "" {
		body["dataset"] = dataset
	}
	if topic, _ := args["topic"].(string); topic != "" {
		body["topic"] = topic
	}
	if module, _ := args["module"].(string); module != "" {
		body["module"] = module
	}
	if players, ok := args["players"].(float64); ok {
		body["players"] = int(players)
	}
	if rules, _ := args["rules"].(string); rules != "" {
		body["rules"] = rules
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nDataset: %s\nRules: %s\n\n%s",
		session.ID, session.Dataset, session.RulesName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Dataset: %s, Players: %d, Created: %s)\n",
			s.ID, s.Dataset, s.Players, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	cmdType, _ := args["type"].(string)

	cmd := engine.Command{Type: engine.CommandType(cmdType)}
	if option, ok := args["option"].(float64); ok {
		cmd.Option = int(option)
	}
	if tileID, ok := args["tile_id"].(float64); ok {
		cmd.TileID = int(tileID)
	}

	var result service.CommandResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/command", sessionID), cmd, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatCommandResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleExportLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	data, err := c.apiCallRaw(fmt.Sprintf("/api/sessions/%s/log.csv", sessionID))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.RulesInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Rule Sets:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Starting money: $%d\n\n",
			config.Name, config.RulesID, config.Description, config.StartingMoney)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListDatasets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var datasets []service.DatasetInfo
	err := c.apiCall("GET", "/api/datasets", nil, &datasets)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Datasets:\n\n"
	for _, ds := range datasets {
		result += fmt.Sprintf("• %s (%d rows)\n", ds.DatasetID, ds.Rows)
		if len(ds.Topics) > 0 {
			result += fmt.Sprintf("  Topics: %s\n", strings.Join(ds.Topics, ", "))
		}
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	dataset, _ := args["dataset"].(string)

	var topics []service.TopicInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/datasets/%s/topics", dataset), nil, &topics)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Topics in %s:\n\n", dataset)
	for _, t := range topics {
		result += fmt.Sprintf("• %s\n", t.BigTopic)
		for _, m := range t.Modules {
			result += fmt.Sprintf("  - %s\n", m)
		}
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎮 Science Around the Board - Complete Instructions

GAME OBJECTIVE:
Circle a Monopoly-style board of microbiology labs. Answer questions to buy
tiles, collect fees from rivals, and win by passing the certification exams
on all four corner milestones.

TURN FLOW:
• Roll two dice (command: roll) to move clockwise around the board
• Landing on an unowned property poses an acquisition question
• Answer correctly (command: answer, option: <index>) to earn the right to
  buy the tile (command: buy) or pass (command: skip)
• Landing on a rival-owned tile poses a rent defense question: answer
  correctly to pay half the fee, or pay in full (command: pay_full_fee)
• Landing on an unowned corner milestone offers a certification exam
  (command: start_exam); on a rival-held milestone, a challenge exam
  (command: accept_challenge) that can take the milestone over

TILE TYPES:
• Property - themed lab tiles in two price tiers per board side
• Milestone - the four corner certifications, bought by passing an exam
• Sequencing Core - flat-fee facility tiles, one question bank shared board-wide
• Lab Mishap - chance tiles that draw a random mishap card

ECONOMY:
• Each property can be upgraded (command: upgrade, tile_id: <id>) up to the
  rule set's max level; rent scales along the rent curve
• Owning every tile of a sub-theme multiplies the fees collected there
• Passing START pays the salary set by the rule set
• When you cannot pay a fee, liquidation starts: sell assets at half price
  (command: liquidate, tile_id: <id>) until you are solvent
• If liquidation cannot cover the debt, an emergency grant exam is offered
  (command: apply_for_grant) - pass it once per game to get bailed out

EXAMS:
• Exams are multi-question: after each answer the game waits for an explicit
  'next' command so the explanation can be read
• Pass by reaching the target score before exceeding the mistake budget
• Quitting early (command: quit_exam) forfeits the exam fee

CHAOS TOKENS:
• Buy a chaos token at the listed price (command: buy_chaos_token)
• Spend one on a rival's property (command: use_chaos_token, tile_id: <id>)
  to pose a takeover question: answer correctly and the tile changes hands

STAGES AND LEGAL COMMANDS:
The game is a state machine; exactly one player acts at a time and only the
stage's commands are legal. Call game_state and read the "Legal commands"
line. Submitting an illegal command returns an error and changes nothing.

ANSWER INDEXING:
The 'option' parameter is the ZERO-BASED index into the options array shown
in the game state. Option index 0 is the first option listed.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 8-character ID
- Sessions maintain independent state, dataset, and rule set
- Every money movement and answer is recorded in the event log (export_log)

Good luck around the board! 🧫🔬🎲`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nDataset: %s\nRules: %s\nCreated: %s\n\n%s",
		session.ID, session.Dataset, session.RulesName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Players
	for i := range state.Players {
		p := &state.Players[i]
		marker := " "
		if i == state.Turn {
			marker = "▶"
		}
		tileName := ""
		if p.Position >= 0 && p.Position < len(state.Board) {
			tileName = state.Board[p.Position].Name
		}
		result.WriteString(fmt.Sprintf("%s %s | $%d | tile %d (%s)",
			marker, p.Name, p.Money, p.Position, tileName))
		if p.ChaosTokens > 0 {
			result.WriteString(fmt.Sprintf(" | chaos tokens: %d", p.ChaosTokens))
		}
		result.WriteString("\n")
	}

	// Turn header
	result.WriteString(fmt.Sprintf("\nTurn %d | Stage: %s", state.TotalTurns, state.Stage))
	if len(state.Dice) == 2 {
		result.WriteString(fmt.Sprintf(" | Dice: %d+%d", state.Dice[0], state.Dice[1]))
	}
	result.WriteString("\n")

	// Active prompt
	if state.Prompt != nil {
		result.WriteString("\n" + formatPrompt(state))
	}

	// Exam progress
	if state.Exam != nil {
		result.WriteString("\n" + formatExam(state.Exam))
	}

	// Board ownership summary
	result.WriteString("\n" + formatBoardSummary(state))

	if state.Feedback != "" {
		result.WriteString(fmt.Sprintf("\nFeedback: %s\n", state.Feedback))
	}

	if state.Winner != nil {
		result.WriteString(fmt.Sprintf("\n🎉 WINNER: %s\n", state.Players[*state.Winner].Name))
	}

	result.WriteString(fmt.Sprintf("\nLegal commands: %s\n", strings.Join(legalCommands(state), ", ")))

	return result.String()
}

func formatPrompt(state *engine.GameState) string {
	p := state.Prompt
	var b strings.Builder

	if p.TileID >= 0 && p.TileID < len(state.Board) {
		b.WriteString(fmt.Sprintf("Tile: %s\n", state.Board[p.TileID].Name))
	}
	if p.Rent > 0 {
		b.WriteString(fmt.Sprintf("Fee at stake: $%d\n", p.Rent))
	}
	if p.Message != "" {
		b.WriteString(fmt.Sprintf("Notice: %s\n", p.Message))
	}
	if p.Fact != "" {
		b.WriteString(fmt.Sprintf("Fact: %s\n", p.Fact))
	}
	if p.Question != nil {
		b.WriteString(formatQuestion(p.Question))
	}

	return b.String()
}

func formatQuestion(q *tsv.Question) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Q: %s\n", q.Prompt))
	for i, opt := range q.Options {
		b.WriteString(fmt.Sprintf("  [%d] %s\n", i, opt))
	}
	return b.String()
}

func formatExam(exam *engine.ExamState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Exam (%s): question %d/%d | score %d/%d | mistakes %d/%d\n",
		exam.Mode, exam.Index+1, len(exam.Questions), exam.Score, exam.Target,
		exam.Mistakes, exam.MaxMistakes))

	if exam.Waiting {
		if exam.LastCorrect != nil {
			if *exam.LastCorrect {
				b.WriteString("Last answer: ✓ correct - send 'next' to continue\n")
			} else {
				b.WriteString("Last answer: ✗ wrong - send 'next' to continue\n")
			}
		}
		return b.String()
	}

	if exam.Index < len(exam.Questions) {
		q := &exam.Questions[exam.Index]
		b.WriteString(fmt.Sprintf("Q: %s\n", q.Prompt))
		for i, opt := range q.Options {
			b.WriteString(fmt.Sprintf("  [%d] %s\n", i, opt))
		}
	}

	return b.String()
}

func formatBoardSummary(state *engine.GameState) string {
	var b strings.Builder
	b.WriteString("Board:\n")

	for _, tile := range state.Board {
		owner := ""
		switch {
		case tile.Owner.IsRival():
			owner = " [rival lab]"
		case tile.Owner.Kind == board.OwnerPlayer:
			if tile.Owner.Player < len(state.Players) {
				owner = fmt.Sprintf(" [%s]", state.Players[tile.Owner.Player].Name)
			}
		}

		level := ""
		if tile.Type == board.Property && tile.Level > 0 {
			level = fmt.Sprintf(" L%d", tile.Level)
		}

		switch tile.Type {
		case board.Property:
			b.WriteString(fmt.Sprintf("  %2d. %s ($%d)%s%s\n", tile.ID, tile.Name, tile.Price, level, owner))
		case board.Milestone:
			b.WriteString(fmt.Sprintf("  %2d. ★ %s ($%d)%s\n", tile.ID, tile.Name, tile.Price, owner))
		case board.SequencingCore:
			b.WriteString(fmt.Sprintf("  %2d. %s ($%d)%s\n", tile.ID, tile.Name, tile.Price, owner))
		case board.Chance:
			b.WriteString(fmt.Sprintf("  %2d. ? %s\n", tile.ID, tile.Name))
		}
	}

	return b.String()
}

// legalCommands returns the command types valid in the state's current stage.
func legalCommands(state *engine.GameState) []string {
	switch state.Stage {
	case engine.StageIdle:
		cmds := []string{"roll", "upgrade", "buy_chaos_token"}
		if state.CurrentPlayer().ChaosTokens > 0 {
			cmds = append(cmds, "use_chaos_token")
		}
		return cmds
	case engine.StageQuestion, engine.StageRentDefense, engine.StageChaosQuestion:
		return []string{"answer"}
	case engine.StageDecision:
		return []string{"buy", "skip"}
	case engine.StageMilestoneIntro:
		return []string{"start_exam", "decline"}
	case engine.StageChallengeIntro:
		return []string{"accept_challenge", "pay_full_fee"}
	case engine.StageExam:
		if state.Exam != nil && state.Exam.Waiting {
			return []string{"next", "quit_exam"}
		}
		return []string{"answer", "quit_exam"}
	case engine.StageLiquidation:
		return []string{"liquidate"}
	case engine.StageGrantIntro:
		return []string{"apply_for_grant", "decline"}
	case engine.StageGrantResult, engine.StageMishap, engine.StageMessage, engine.StageFeedback:
		return []string{"acknowledge"}
	case engine.StageWon:
		return []string{}
	default:
		return []string{}
	}
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Stage: %s\n", result.Stage))
	if result.Feedback != "" {
		b.WriteString(fmt.Sprintf("Feedback: %s\n", result.Feedback))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			line := fmt.Sprintf("- %s: %s", event.EventType, event.Action)
			if event.Amount != 0 {
				line += fmt.Sprintf(" ($%+d)", event.Amount)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}
