package view

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/storefront"

	"github.com/go-faster/errors"
	"github.com/spf13/cast"
)

var ErrUnknownCommand = errors.New("unknown command")

// Authenticator obtains a boundary token for catalog mutations.
type Authenticator interface {
	Login(ctx context.Context, secret string) error
	Logout()
}

// App is everything a command may touch.
type App struct {
	Products *storefront.ProductStore
	Cart     *storefront.CartStore
	Session  *storefront.Session
	Renderer *Renderer
	// Remote is optional; when set, login also fetches a boundary token.
	Remote Authenticator
	Phone  string
}

type Handler func(ctx context.Context, args []string) error

type Command struct {
	Name  string
	Usage string
	// Admin commands are rejected with ErrAuth outside an admin session.
	Admin bool
	Run   Handler
}

// Commands is the named action registry the shell dispatches into.
type Commands struct {
	app  *App
	cmds map[string]Command
}

func NewCommands(app *App) *Commands {
	c := &Commands{app: app, cmds: make(map[string]Command)}
	for _, cmd := range []Command{
		{Name: "list", Usage: "list", Run: c.list},
		{Name: "add", Usage: "add <id>", Run: c.add},
		{Name: "remove", Usage: "remove <id>", Run: c.remove},
		{Name: "inc", Usage: "inc <id> [n]", Run: c.adjust(1)},
		{Name: "dec", Usage: "dec <id> [n]", Run: c.adjust(-1)},
		{Name: "cart", Usage: "cart", Run: c.cart},
		{Name: "checkout", Usage: "checkout", Run: c.checkout},
		{Name: "login", Usage: "login <senha>", Run: c.login},
		{Name: "logout", Usage: "logout", Run: c.logout},
		{Name: "create", Usage: `create category=<cat> name="..." price=0.00 [internalId=] [image=] [description=]`, Admin: true, Run: c.create},
		{Name: "edit", Usage: "edit <id> field=value...", Admin: true, Run: c.edit},
		{Name: "delete", Usage: "delete <id>", Admin: true, Run: c.delete},
		{Name: "help", Usage: "help", Run: c.help},
	} {
		c.Register(cmd)
	}
	return c
}

func (c *Commands) Register(cmd Command) {
	c.cmds[cmd.Name] = cmd
}

func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.cmds))
	for name := range c.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one input line.
func (c *Commands) Dispatch(ctx context.Context, line string) error {
	args, err := SplitArgs(line)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := c.cmds[strings.ToLower(args[0])]
	if !ok {
		return errors.Wrap(ErrUnknownCommand, args[0])
	}
	if cmd.Admin && !c.app.Session.IsAdmin() {
		return apperr.ErrAuth
	}
	return cmd.Run(ctx, args[1:])
}

// Message turns an error into the line shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return "Comando desconhecido. Digite help."
	case apperr.IsNotFound(err):
		return "Produto não encontrado."
	case apperr.IsValidation(err):
		return "Dados inválidos: " + err.Error()
	case apperr.IsAuth(err):
		return "Acesso restrito ao administrador."
	case apperr.IsPersistence(err):
		return "Falha ao salvar os dados. Tente novamente."
	default:
		return "Erro: " + err.Error()
	}
}

func need(args []string, n int, usage string) error {
	if len(args) < n {
		return apperr.Validation("uso: " + usage)
	}
	return nil
}

func (c *Commands) list(ctx context.Context, args []string) error {
	c.app.Renderer.RenderCatalog()
	return nil
}

func (c *Commands) add(ctx context.Context, args []string) error {
	if err := need(args, 1, "add <id>"); err != nil {
		return err
	}
	if err := c.app.Cart.Add(args[0]); err != nil {
		return err
	}
	c.app.Renderer.Notify("Produto adicionado ao carrinho!")
	return nil
}

func (c *Commands) remove(ctx context.Context, args []string) error {
	if err := need(args, 1, "remove <id>"); err != nil {
		return err
	}
	if err := c.app.Cart.Remove(args[0]); err != nil {
		return err
	}
	c.app.Renderer.RenderCart()
	return nil
}

func (c *Commands) adjust(sign int) Handler {
	return func(ctx context.Context, args []string) error {
		if err := need(args, 1, "inc|dec <id> [n]"); err != nil {
			return err
		}
		n := 1
		if len(args) > 1 {
			v, err := cast.ToIntE(args[1])
			if err != nil || v <= 0 {
				return apperr.Validation("quantidade inválida: " + args[1])
			}
			n = v
		}
		if err := c.app.Cart.AdjustQuantity(args[0], sign*n); err != nil {
			return err
		}
		c.app.Renderer.RenderCart()
		return nil
	}
}

func (c *Commands) cart(ctx context.Context, args []string) error {
	c.app.Renderer.RenderCart()
	return nil
}

func (c *Commands) checkout(ctx context.Context, args []string) error {
	link, ok := Checkout(c.app.Phone, c.app.Cart.Items())
	if !ok {
		c.app.Renderer.Notify("Seu carrinho está vazio.")
		return nil
	}
	c.app.Renderer.Notify(link)
	return nil
}

func (c *Commands) login(ctx context.Context, args []string) error {
	if err := need(args, 1, "login <senha>"); err != nil {
		return err
	}
	if err := c.app.Session.Authenticate(args[0]); err != nil {
		c.app.Renderer.Notify("Senha incorreta!")
		return nil
	}
	if c.app.Remote != nil {
		if err := c.app.Remote.Login(ctx, args[0]); err != nil {
			// the boundary may run without tokens; writes will tell
			logger.Warn(ctx, "Remote login failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (c *Commands) logout(ctx context.Context, args []string) error {
	c.app.Session.Deauthenticate()
	if c.app.Remote != nil {
		c.app.Remote.Logout()
	}
	return nil
}

// applyFields sets key=value pairs on p.
func applyFields(p *model.Product, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return apperr.Validation("esperado campo=valor: " + arg)
		}
		switch strings.ToLower(key) {
		case "category", "categoria":
			p.Category = model.Category(strings.ToLower(value))
		case "name", "nome":
			p.Name = value
		case "description", "desc", "descricao":
			p.Description = value
		case "internalid", "internal", "codigo":
			p.InternalID = value
		case "price", "preco":
			price, err := model.ParsePrice(value)
			if err != nil {
				return apperr.Validation("preço inválido: " + value)
			}
			p.Price = price
		case "image", "imagem":
			p.Image = value
		default:
			return apperr.Validation("campo desconhecido: " + key)
		}
	}
	return nil
}

func (c *Commands) create(ctx context.Context, args []string) error {
	var p model.Product
	if err := applyFields(&p, args); err != nil {
		return err
	}
	created, err := c.app.Products.Create(ctx, p)
	return c.settle(err, fmt.Sprintf("Produto %s criado", created.ID))
}

func (c *Commands) edit(ctx context.Context, args []string) error {
	if err := need(args, 2, "edit <id> field=value..."); err != nil {
		return err
	}
	p, ok := c.app.Products.Find(args[0])
	if !ok {
		return apperr.NotFound("product", args[0])
	}
	if err := applyFields(&p, args[1:]); err != nil {
		return err
	}
	_, err := c.app.Products.Update(ctx, args[0], p)
	return c.settle(err, fmt.Sprintf("Produto %s atualizado", args[0]))
}

func (c *Commands) delete(ctx context.Context, args []string) error {
	if err := need(args, 1, "delete <id>"); err != nil {
		return err
	}
	err := c.app.Products.Delete(ctx, args[0])
	return c.settle(err, fmt.Sprintf("Produto %s excluído", args[0]))
}

// settle reports an admin change. A stale result is still a success: the
// change is stored, and reporting a failure would invite a duplicate retry.
func (c *Commands) settle(err error, done string) error {
	switch {
	case storefront.IsStale(err):
		c.app.Renderer.Notify(done + ", mas a lista não pôde ser recarregada.")
		return nil
	case err != nil:
		return err
	}
	c.app.Renderer.Notify(done + ".")
	return nil
}

func (c *Commands) help(ctx context.Context, args []string) error {
	for _, name := range c.Names() {
		c.app.Renderer.Notify("  " + c.cmds[name].Usage)
	}
	return nil
}

// SplitArgs splits on spaces; double quotes group words and may appear
// inside a token (name="Vestido Longo").
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case (r == ' ' || r == '\t') && !inQuote:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
