// Основной пакет CLI articlekit. Отвечает за авторизацию, управление
// статьями блога, загрузку изображений, локальный предпросмотр и
// экспорт статей в автономные форматы.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/md7o/articlekit/internal/articlekit/api"
	"github.com/md7o/articlekit/internal/articlekit/config"
	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
	_ "github.com/md7o/articlekit/internal/articlekit/editor/tiptap"
	"github.com/md7o/articlekit/internal/articlekit/export"
	"github.com/md7o/articlekit/internal/articlekit/preview"
	"github.com/md7o/articlekit/internal/articlekit/search"
	"github.com/md7o/articlekit/internal/articlekit/sessions"
	"github.com/md7o/articlekit/internal/articlekit/store"
)

var version string = "DEV"

// CLI определяет интерфейс командной строки articlekit.
var CLI struct {
	Debug bool `help:"Verbose logs"`

	Login   LoginCmd   `cmd:"" help:"Sign in and store the session"`
	Signup  SignupCmd  `cmd:"" help:"Create an account"`
	Logout  LogoutCmd  `cmd:"" help:"Sign out and forget the session"`
	Whoami  WhoamiCmd  `cmd:"" help:"Show the current user"`
	List    ListCmd    `cmd:"" help:"List articles"`
	Search  SearchCmd  `cmd:"" help:"Search articles by substring"`
	Get     GetCmd     `cmd:"" help:"Print one article"`
	New     NewCmd     `cmd:"" aliases:"publish" help:"Publish a new article from a text file"`
	Edit    EditCmd    `cmd:"" help:"Replace article content from a file"`
	Update  UpdateCmd  `cmd:"" help:"Update article fields"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an article"`
	Upload  UploadCmd  `cmd:"" help:"Upload an image"`
	Preview PreviewCmd `cmd:"" help:"Serve a local preview of the blog"`
	Export  ExportCmd  `cmd:"" help:"Export an article to html, md or pdf"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// appContext собирает зависимости команд: конфигурацию, сессию и клиент
// бэкенда.
type appContext struct {
	cfg      *config.Config
	sessions *sessions.SessionsManager
	client   *api.Client
	store    *store.ArticleStore
}

func newAppContext() (*appContext, error) {
	cfg := config.ReadConfig()

	sm, err := sessions.NewSessionsManager(cfg.SessionsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open sessions db: %w", err)
	}

	client := api.NewClient(cfg.APIURLRaw, sm)
	return &appContext{
		cfg:      cfg,
		sessions: sm,
		client:   client,
		store:    store.NewArticleStore(client),
	}, nil
}

func (a *appContext) Close() {
	a.sessions.Close()
}

type LoginCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Password, prompted when omitted"`
}

func (c *LoginCmd) Run(app *appContext) error {
	pass := c.Password
	if pass == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		pass = strings.TrimSpace(line)
	}

	auth, err := app.client.Login(context.Background(), c.Email, pass)
	if err != nil {
		return err
	}
	if err := app.sessions.Save(auth.Token, auth.User); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", auth.User.Email)
	return nil
}

type SignupCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Password, generated when omitted"`
}

func (c *SignupCmd) Run(app *appContext) error {
	auth, generated, err := app.client.Signup(context.Background(), c.Email, c.Password)
	if err != nil {
		return err
	}
	if generated != "" {
		fmt.Printf("Generated password: %s\n", generated)
	}
	if auth.Token != "" {
		if err := app.sessions.Save(auth.Token, auth.User); err != nil {
			return err
		}
	}
	fmt.Printf("Account created: %s\n", auth.User.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(app *appContext) error {
	if err := app.client.Logout(context.Background()); err != nil {
		slog.Warn("Backend logout", "err", err)
	}
	if err := app.sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(app *appContext) error {
	user, err := app.sessions.User()
	if err != nil {
		if sessions.IsNoSession(err) {
			fmt.Println("Not logged in")
			return nil
		}
		return err
	}
	fmt.Printf("%s (%s)\n", user.Email, user.Role)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(app *appContext) error {
	articles, err := app.store.Fetch(context.Background())
	if err != nil {
		return err
	}
	printArticles(articles)
	return nil
}

type SearchCmd struct {
	Query string `arg:"" help:"Substring to search for"`
}

func (c *SearchCmd) Run(app *appContext) error {
	articles, err := app.store.Fetch(context.Background())
	if err != nil {
		return err
	}
	printArticles(search.Filter(articles, c.Query))
	return nil
}

type GetCmd struct {
	Slug string `arg:"" help:"Article slug"`
	Raw  bool   `help:"Print the raw document JSON"`
}

func (c *GetCmd) Run(app *appContext) error {
	article, err := app.client.GetArticle(context.Background(), c.Slug)
	if err != nil {
		return err
	}

	if c.Raw {
		raw, err := article.Content.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	}

	fmt.Printf("# %s\n\n", article.Title)
	return export.ToMarkdown(article, os.Stdout)
}

type NewCmd struct {
	Title string `arg:"" help:"Article title"`
	File  string `arg:"" optional:"" type:"existingfile" help:"Text file with the article body, one paragraph per line"`
	Cover string `help:"Cover image URL"`
	Align string `help:"Title alignment: left, center or right" default:"left"`
}

func (c *NewCmd) Run(app *appContext) error {
	ed := editor.New()
	if c.File != "" {
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(string(raw), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				ed.AppendParagraph(line)
			}
		}
	}

	article := dto.Article{
		Title:      c.Title,
		TitleAlign: c.Align,
		CoverImage: c.Cover,
		Content:    ed.Content(),
	}

	created, err := app.client.CreateArticle(context.Background(), article)
	if err != nil {
		return err
	}
	fmt.Printf("Published %s\n", created.Slug)
	return nil
}

type EditCmd struct {
	Slug string `arg:"" help:"Article slug"`
	File string `arg:"" type:"existingfile" help:"Document JSON or plain text, one paragraph per line"`
}

func (c *EditCmd) Run(app *appContext) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	var content edtypes.Content
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		if err := json.Unmarshal(raw, &content); err != nil {
			return err
		}
	} else {
		ed := editor.New()
		for _, line := range strings.Split(string(raw), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				ed.AppendParagraph(line)
			}
		}
		content = ed.Content()
	}

	updated, err := app.store.Update(context.Background(), c.Slug, dto.ArticleUpdate{Content: &content})
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", updated.Slug)
	return nil
}

type UpdateCmd struct {
	Slug  string `arg:"" help:"Article slug"`
	Title string `help:"New title"`
	Cover string `help:"New cover image URL"`
	Align string `help:"New title alignment"`
}

func (c *UpdateCmd) Run(app *appContext) error {
	update := dto.ArticleUpdate{}
	if c.Title != "" {
		update.Title = &c.Title
	}
	if c.Cover != "" {
		update.CoverImage = &c.Cover
	}
	if c.Align != "" {
		update.TitleAlign = &c.Align
	}

	updated, err := app.store.Update(context.Background(), c.Slug, update)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", updated.Slug)
	return nil
}

type DeleteCmd struct {
	Slug string `arg:"" help:"Article slug"`
	Yes  bool   `short:"y" help:"Skip confirmation"`
}

func (c *DeleteCmd) Run(app *appContext) error {
	if !c.Yes {
		fmt.Printf("Delete %q? [y/N]: ", c.Slug)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := app.store.Delete(context.Background(), c.Slug); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", c.Slug)
	return nil
}

type UploadCmd struct {
	File      string `arg:"" type:"existingfile" help:"Image file to upload"`
	Thumbnail bool   `help:"Shrink to a 512x512 JPEG before uploading"`
}

func (c *UploadCmd) Run(app *appContext) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	var body io.Reader = f
	name := filepath.Base(c.File)
	if c.Thumbnail {
		thumb, _, thumbType, err := api.ImageThumbnail(f, mime.TypeByExtension(filepath.Ext(c.File)))
		if err != nil {
			return err
		}
		body = thumb
		if thumbType == "image/jpeg" {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
		}
	}

	fileURL, err := app.client.UploadImage(context.Background(), name, body)
	if err != nil {
		return err
	}
	fmt.Println(fileURL)
	return nil
}

type PreviewCmd struct {
	Addr string `help:"Listen address, overrides PREVIEW_ADDR"`
}

func (c *PreviewCmd) Run(app *appContext) error {
	if c.Addr != "" {
		app.cfg.PreviewAddr = c.Addr
	}
	return preview.NewServer(app.cfg, app.store).Start()
}

type ExportCmd struct {
	Slug   string `arg:"" help:"Article slug"`
	Format string `help:"Export format: html, md or pdf" default:"html"`
	Out    string `help:"Output file, defaults to <slug>.<format>"`
}

func (c *ExportCmd) Run(app *appContext) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	article, err := app.client.GetArticle(context.Background(), c.Slug)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = c.Slug + "." + string(format)
	}
	if dir := app.cfg.ExportDir; dir != "" && !filepath.IsAbs(out) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		out = filepath.Join(dir, out)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err := export.Export(article, format, f); err != nil {
		return err
	}
	slog.Info("Article exported", "slug", c.Slug, "format", format, "path", out, "duration", time.Since(start))
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(app *appContext) error {
	fmt.Printf("articlekit %s\n", version)
	return nil
}

func printArticles(articles []dto.Article) {
	if len(articles) == 0 {
		fmt.Println("No articles")
		return
	}
	for _, a := range articles {
		created := ""
		if !a.CreatedAt.IsZero() {
			created = a.CreatedAt.Format("2006-01-02")
		}
		fmt.Printf("%-30s  %-10s  %-14s  %s\n", a.Slug, created, contentSummary(a.Content), a.Title)
	}
}

// contentSummary перечисляет типы блоков документа для вывода в списке.
func contentSummary(c edtypes.Content) string {
	if c.IsLegacy() {
		return "legacy text"
	}
	counts := map[string]int{}
	for _, block := range c.Doc.Blocks {
		switch block.(type) {
		case *edtypes.Paragraph:
			counts["p"]++
		case *edtypes.Heading:
			counts["h"]++
		case *edtypes.CodeBlock:
			counts["code"]++
		case *edtypes.BulletList, *edtypes.OrderedList:
			counts["list"]++
		case *edtypes.Image:
			counts["img"]++
		}
	}
	parts := make([]string, 0, len(counts))
	for _, k := range []string{"h", "p", "code", "list", "img"} {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
		}
	}
	return strings.Join(parts, ", ")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("articlekit"),
		kong.Description("Portfolio blog toolkit: publish, preview and export articles"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	app, err := newAppContext()
	ctx.FatalIfErrorf(err)
	defer app.Close()

	ctx.FatalIfErrorf(ctx.Run(app))
}
