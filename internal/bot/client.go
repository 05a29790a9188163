package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin Telegram Bot API sender. Rendering stays at this boundary;
// the rest of the code hands it plain text and keyboard payloads.
type Client struct {
	token  string
	httpc  *http.Client
	apiURL string
}

func NewClient(token string) *Client {
	return &Client{
		token:  token,
		apiURL: "https://api.telegram.org/bot" + token,
		httpc:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) send(method string, payload any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", c.apiURL+"/"+method, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram %s: %s", method, resp.Status)
	}
	return nil
}

func (c *Client) SendMessage(chatID int64, text string, replyMarkup any) error {
	data := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if replyMarkup != nil {
		data["reply_markup"] = replyMarkup
	}
	return c.send("sendMessage", data)
}

func (c *Client) SendPhoto(chatID int64, photoURL, caption string) error {
	data := map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
	}
	if caption != "" {
		data["caption"] = caption
	}
	return c.send("sendPhoto", data)
}

// DownloadFile fetches the content of an uploaded document: resolve the
// file path via getFile, then pull the bytes from the file endpoint.
func (c *Client) DownloadFile(fileID string) ([]byte, error) {
	b, _ := json.Marshal(map[string]any{"file_id": fileID})
	resp, err := c.httpc.Post(c.apiURL+"/getFile", "application/json", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var meta struct {
		OK     bool `json:"ok"`
		Result struct {
			FilePath string `json:"file_path"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, err
	}
	if !meta.OK || meta.Result.FilePath == "" {
		return nil, fmt.Errorf("getFile: no path for %s", fileID)
	}

	fileResp, err := c.httpc.Get("https://api.telegram.org/file/bot" + c.token + "/" + meta.Result.FilePath)
	if err != nil {
		return nil, err
	}
	defer fileResp.Body.Close()
	if fileResp.StatusCode >= 300 {
		return nil, fmt.Errorf("file download: %s", fileResp.Status)
	}
	return io.ReadAll(fileResp.Body)
}

// AnswerCallback acknowledges a button press, optionally with a toast text.
func (c *Client) AnswerCallback(callbackID, text string) error {
	data := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		data["text"] = text
	}
	return c.send("answerCallbackQuery", data)
}
