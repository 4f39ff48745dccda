// Command dilse is a terminal client for the DilSe API. It keeps a session
// file under ~/.dilse and exercises the same endpoints the web frontend uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dilse/internal/client"
	"dilse/internal/models"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	c := client.New(serverURL(), client.NewSessionStore(""))
	ctx := context.Background()

	var err error
	switch cmd {
	case "signup":
		err = runAuth(ctx, c, args, "signup")
	case "login":
		err = runAuth(ctx, c, args, "login")
	case "logout":
		err = c.Logout()
		if err == nil {
			log.Println("👋 Logged out")
		}
	case "feed":
		err = runFeed(ctx, c, args)
	case "post":
		err = runPost(ctx, c, args)
	case "react":
		err = runReact(ctx, c, args)
	case "reply":
		err = runReply(ctx, c, args)
	case "suggest":
		err = runSuggest(ctx, c, args)
	case "live":
		err = runLive(ctx, c)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: dilse <command> [flags]

Commands:
  signup   -nickname <name> -password <pw>   Create an account
  login    -nickname <name> -password <pw>   Log in
  logout                                     Drop the stored session
  feed     [-replies]                        Show the latest confessions
  post     -title <t> -content <c> [-tag id] Publish a confession
  react    -post <id> -kind hearts|flowers   Send a reaction
  reply    -post <id> -content <c>           Add a reply
  suggest  -content <c>                      Ask the AI for an emotion tag
  live                                       Stream feed events until Ctrl-C

The server address comes from DILSE_SERVER (default http://localhost:5000).`)
}

func serverURL() string {
	if v := os.Getenv("DILSE_SERVER"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://localhost:5000"
}

func runAuth(ctx context.Context, c *client.Client, args []string, mode string) error {
	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	nickname := fs.String("nickname", "", "Nickname")
	password := fs.String("password", "", "Password")
	_ = fs.Parse(args)

	if *nickname == "" || *password == "" {
		return fmt.Errorf("both -nickname and -password are required")
	}

	var session *client.Session
	var err error
	if mode == "signup" {
		session, err = c.Signup(ctx, *nickname, *password)
	} else {
		session, err = c.Login(ctx, *nickname, *password)
	}
	if err != nil {
		return err
	}

	log.Printf("✅ Logged in as %s", session.User.Nickname)
	return nil
}

func runFeed(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	withReplies := fs.Bool("replies", false, "Print replies under each post")
	_ = fs.Parse(args)

	posts, err := c.Posts(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		log.Println("The feed is empty. Be the first to share something.")
		return nil
	}

	for _, post := range posts {
		printPost(post, *withReplies)
	}
	return nil
}

func runPost(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "Post title")
	content := fs.String("content", "", "Post content")
	tag := fs.String("tag", "", "Emotion tag id (empty asks the AI to suggest one)")
	_ = fs.Parse(args)

	chosen := models.EmotionTagID(*tag)
	if chosen == "" {
		if suggested, ok := c.SuggestTag(ctx, *content); ok {
			log.Printf("💡 Suggested tag: %s", suggested)
			chosen = suggested
		} else {
			chosen = models.TagHope
		}
	}

	post, err := c.CreatePost(ctx, *title, *content, chosen)
	if err != nil {
		return err
	}

	log.Printf("✅ Posted %q [%s] (%s)", post.Title, post.Tag, post.ID)
	return nil
}

func runReact(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("react", flag.ExitOnError)
	postID := fs.String("post", "", "Post ID")
	kind := fs.String("kind", "hearts", "Reaction kind (hearts or flowers)")
	_ = fs.Parse(args)

	post, err := c.React(ctx, *postID, models.ReactionKind(*kind))
	if err != nil {
		return err
	}

	log.Printf("✅ %q now has ❤️ %d and 🌸 %d", post.Title, post.Hearts, post.Flowers)
	return nil
}

func runReply(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("reply", flag.ExitOnError)
	postID := fs.String("post", "", "Post ID")
	content := fs.String("content", "", "Reply content")
	_ = fs.Parse(args)

	post, err := c.Reply(ctx, *postID, *content)
	if err != nil {
		return err
	}

	log.Printf("✅ Replied to %q (%d replies now)", post.Title, len(post.Replies))
	return nil
}

func runSuggest(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	content := fs.String("content", "", "Draft content to analyze")
	_ = fs.Parse(args)

	tag, ok := c.SuggestTag(ctx, *content)
	if !ok {
		log.Println("No suggestion available.")
		return nil
	}

	log.Printf("💡 Suggested tag: %s", tag)
	return nil
}

func runLive(ctx context.Context, c *client.Client) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wsURL := strings.Replace(serverURL(), "http", "ws", 1) + "/api/ws/feed"
	live, err := c.SubscribeFeed(ctx, wsURL)
	if err != nil {
		return err
	}
	defer func() { _ = live.Close() }()

	log.Println("📡 Listening for feed events (Ctrl-C to stop)...")
	for {
		event, err := live.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if event.Post == nil {
			continue
		}
		switch event.Type {
		case "post_created":
			log.Printf("🆕 %q [%s]", event.Post.Title, event.Post.Tag)
		case "post_reacted":
			log.Printf("💞 %q: ❤️ %d 🌸 %d", event.Post.Title, event.Post.Hearts, event.Post.Flowers)
		case "reply_added":
			log.Printf("💬 %q has %d replies", event.Post.Title, len(event.Post.Replies))
		}
	}
}

func printPost(post models.Post, withReplies bool) {
	author := post.Author.Nickname
	if author == "" {
		author = "anonymous"
	}
	fmt.Printf("\n[%s] %s (by %s)\n", post.Tag, post.Title, author)
	fmt.Printf("  %s\n", post.Content)
	fmt.Printf("  ❤️ %d  🌸 %d  💬 %d  (%s)\n", post.Hearts, post.Flowers, len(post.Replies), post.ID)
	if withReplies {
		for _, reply := range post.Replies {
			name := reply.Author.Nickname
			if name == "" {
				name = "anonymous"
			}
			fmt.Printf("    ↳ %s: %s\n", name, reply.Content)
		}
	}
}
