package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/config"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/middleware"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	server := flag.String("server", "http://localhost"+cfg.Server.Addr, "API 基础地址")
	owner := flag.String("owner", "manual-tester", "签发 token 使用的用户 ID")
	personaID := flag.String("persona", "", "新建会话使用的 persona ID")
	conversation := flag.String("conversation", "", "已有会话 ID，留空则新建")
	message := flag.String("message", "", "发送的消息内容")
	timeout := flag.Duration("timeout", 90*time.Second, "请求超时时间")

	flag.Parse()

	if strings.TrimSpace(*message) == "" {
		flag.Usage()
		log.Fatal("请通过 -message 指定消息内容")
	}

	token, err := middleware.IssueToken(cfg.Auth.JWTSecret, *owner, time.Hour)
	if err != nil {
		log.Fatalf("签发 token 失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := &tester{base: strings.TrimRight(*server, "/"), token: token}

	conversationID := *conversation
	if conversationID == "" {
		conversationID, err = c.createConversation(ctx, *personaID)
		if err != nil {
			log.Fatalf("创建会话失败: %v", err)
		}
		log.Printf("created conversation %s", conversationID)
	}

	if err := c.send(ctx, conversationID, *message); err != nil {
		log.Fatalf("发送消息失败: %v", err)
	}
}

type tester struct {
	base  string
	token string
}

func (c *tester) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return http.DefaultClient.Do(req)
}

func (c *tester) createConversation(ctx context.Context, personaID string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/conversations", map[string]string{"personaId": personaID})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var conv struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&conv); err != nil {
		return "", err
	}
	return conv.ID, nil
}

func (c *tester) send(ctx context.Context, conversationID, message string) error {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, "/api/conversations/"+conversationID+"/messages", map[string]string{"content": message})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var (
		chunks   int
		received int
		first    time.Duration
	)
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}

		var frame struct {
			Chunk              string `json:"chunk"`
			Done               bool   `json:"done"`
			Error              string `json:"error"`
			UserMessageID      string `json:"userMessageId"`
			AssistantMessageID string `json:"assistantMessageId"`
			ChatTitle          string `json:"chatTitle"`
		}
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			log.Printf("[WARN] 无法解析帧: %s", payload)
			continue
		}

		switch {
		case frame.Error != "":
			fmt.Fprintln(os.Stdout)
			return fmt.Errorf("stream error: %s", frame.Error)
		case frame.Done:
			fmt.Fprintln(os.Stdout)
			log.Printf("done: user=%s assistant=%s title=%q", frame.UserMessageID, frame.AssistantMessageID, frame.ChatTitle)
		default:
			if chunks == 0 {
				first = time.Since(start)
			}
			chunks++
			received += len(frame.Chunk)
			fmt.Fprint(os.Stdout, frame.Chunk)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	log.Printf("received %d chunks (%s) first chunk after %s, total %s",
		chunks, humanize.Bytes(uint64(received)), first.Round(time.Millisecond), time.Since(start).Round(time.Millisecond))
	return nil
}
