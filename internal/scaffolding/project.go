package scaffolding

// ProjectContext holds the values substituted into project files.
type ProjectContext struct {
	Name        string
	HTMX        string
	Alpine      string
	Tailwind    string
	WithServer  bool
	WithExample bool
}

const baseLayout = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{% block title %}[[.Name]]{% endblock %}</title>

    <!-- Tailwind CSS -->
    <script src="[[.Tailwind]]"></script>

    <!-- HTMX -->
    <script src="[[.HTMX]]"></script>

    <!-- Alpine.js -->
    <script defer src="[[.Alpine]]"></script>

    {% block extra_head %}{% endblock %}
</head>
<body class="bg-gray-50 min-h-screen">
    <div class="container mx-auto px-4 py-8">
        {% block content %}{% endblock %}
    </div>

    {% block extra_body %}{% endblock %}
</body>
</html>
`

const counterComponent = `<!-- Counter Component - Alpine.js class-based state -->
{% macro counter(initial_count=0) export %}
<div
    x-data="new CounterState({{ initial_count }})"
    class="bg-white rounded-lg shadow-md p-6 max-w-md"
>
    <h3 class="text-xl font-semibold mb-4">Counter</h3>

    <div class="flex items-center justify-between mb-4">
        <button
            @click="decrement()"
            class="bg-red-500 hover:bg-red-600 text-white px-4 py-2 rounded"
        >
            -
        </button>

        <span class="text-3xl font-bold" x-text="count"></span>

        <button
            @click="increment()"
            class="bg-green-500 hover:bg-green-600 text-white px-4 py-2 rounded"
        >
            +
        </button>
    </div>

    <button
        @click="reset()"
        class="w-full bg-gray-500 hover:bg-gray-600 text-white px-4 py-2 rounded"
    >
        Reset
    </button>

    <div class="mt-4 text-sm text-gray-600">
        <p>Double: <span x-text="double"></span></p>
    </div>
</div>

<script>
// CounterState holds the counter state and behaviour
class CounterState {
    constructor(initialCount = 0) {
        this.initial = initialCount;
        this.count = initialCount;
    }

    increment() {
        this.count++;
    }

    decrement() {
        this.count--;
    }

    reset() {
        this.count = this.initial;
    }

    get double() {
        return this.count * 2;
    }
}
</script>
{% endmacro %}
`

const todoComponent = `<!-- Todo List Component - class-based state management -->
{% macro todo() export %}
<div
    x-data="new TodoState()"
    class="bg-white rounded-lg shadow-md p-6 max-w-2xl"
>
    <h3 class="text-xl font-semibold mb-4">Todo List</h3>

    <div class="flex gap-2 mb-4">
        <input
            type="text"
            x-model="newTodo"
            @keyup.enter="addTodo()"
            placeholder="Add a new todo..."
            class="flex-1 px-4 py-2 border border-gray-300 rounded focus:outline-none focus:ring-2 focus:ring-blue-500"
        />
        <button
            @click="addTodo()"
            class="bg-blue-500 hover:bg-blue-600 text-white px-6 py-2 rounded"
        >
            Add
        </button>
    </div>

    <ul class="space-y-2">
        <template x-for="todo in todos" :key="todo.id">
            <li class="flex items-center gap-2 p-3 bg-gray-50 rounded">
                <input
                    type="checkbox"
                    :checked="todo.completed"
                    @change="toggleTodo(todo.id)"
                    class="w-5 h-5 text-blue-500"
                />
                <span
                    x-text="todo.text"
                    :class="todo.completed ? 'line-through text-gray-400' : ''"
                    class="flex-1"
                ></span>
                <button
                    @click="removeTodo(todo.id)"
                    class="text-red-500 hover:text-red-700"
                >
                    Delete
                </button>
            </li>
        </template>
    </ul>

    <div x-show="todos.length === 0" class="text-center text-gray-400 py-8">
        No todos yet. Add one above!
    </div>

    <div class="mt-4 text-sm text-gray-600">
        <p>Total: <span x-text="totalCount"></span> | Completed: <span x-text="completedCount"></span></p>
    </div>
</div>

<script>
// TodoState holds the todo list state and behaviour
class TodoState {
    constructor() {
        this.todos = [];
        this.newTodo = '';
        this.nextId = 1;
    }

    addTodo() {
        const text = this.newTodo.trim();
        if (text) {
            this.todos.push({ id: this.nextId++, text: text, completed: false });
            this.newTodo = '';
        }
    }

    toggleTodo(id) {
        const todo = this.todos.find(t => t.id === id);
        if (todo) todo.completed = !todo.completed;
    }

    removeTodo(id) {
        this.todos = this.todos.filter(t => t.id !== id);
    }

    get totalCount() {
        return this.todos.length;
    }

    get completedCount() {
        return this.todos.filter(t => t.completed).length;
    }
}
</script>
{% endmacro %}
`

const dataFetchComponent = `<!-- Data Fetch Component - HTMX with explicit data flow -->
{% macro data_fetch() export %}
<div
    x-data="new DataFetchState()"
    @htmx:before-request="loading = true"
    @htmx:after-request="sync($event.detail.xhr.response)"
    class="bg-white rounded-lg shadow-md p-6 max-w-2xl"
>
    <h3 class="text-xl font-semibold mb-4">Data Fetcher</h3>

    <button
        hx-get="/api/data"
        hx-trigger="click"
        hx-swap="none"
        class="bg-blue-500 hover:bg-blue-600 text-white px-6 py-2 rounded mb-4"
    >
        Load Data
    </button>

    <div x-show="loading" class="text-center py-4">
        <span class="text-gray-500">Loading...</span>
    </div>

    <div x-show="!loading && items.length > 0" class="space-y-2">
        <template x-for="item in items" :key="item.id">
            <div class="p-3 bg-gray-50 rounded border">
                <strong x-text="item.title"></strong>: <span x-text="item.description"></span>
            </div>
        </template>
    </div>

    <div
        x-show="!loading && items.length === 0"
        class="p-4 bg-gray-50 rounded min-h-[100px] text-center text-gray-400"
    >
        Click the button to load data from the server.
    </div>

    <div class="mt-4 text-sm text-gray-600">
        <p>Items loaded: <span x-text="itemCount"></span></p>
    </div>
</div>

<script>
// DataFetchState receives server JSON through sync
class DataFetchState {
    constructor() {
        this.items = [];
        this.loading = false;
    }

    sync(jsonData) {
        try {
            const data = typeof jsonData === 'string' ? JSON.parse(jsonData) : jsonData;
            this.items = data.items || data || [];
        } catch (e) {
            console.error('Failed to sync data:', e);
        }
        this.loading = false;
    }

    get itemCount() {
        return this.items.length;
    }
}
</script>
{% endmacro %}
`

const indexPage = `{% extends "layouts/base.html" %}

{% block title %}[[.Name]]{% endblock %}

{% block content %}
{% import "components/counter.html" counter %}
{% import "components/todo.html" todo %}
{% import "components/data_fetch.html" data_fetch %}
<div class="space-y-8">
    <header class="text-center mb-12">
        <h1 class="text-4xl font-bold text-gray-800 mb-2">[[.Name]]</h1>
        <p class="text-lg text-gray-600">Zero-build, zero-magic frontend components</p>
        <p class="text-sm text-gray-500 mt-2">Template macros, Alpine.js state classes and HTMX</p>
    </header>

    <section class="space-y-6">
        <h2 class="text-2xl font-semibold text-gray-700">Example Components</h2>

        <div class="grid md:grid-cols-2 gap-6">
            <div>{{ counter(0) }}</div>
            <div>{{ data_fetch() }}</div>
        </div>

        <div>{{ todo() }}</div>
    </section>

    <footer class="text-center text-gray-500 mt-12 pt-8 border-t">
        <p>Built with HTMX, Alpine.js and Tailwind CSS</p>
        <p class="text-sm mt-2">No build step. No hidden magic. Template-centered.</p>
    </footer>
</div>
{% endblock %}
`

const serverGoMod = `module [[.Name]]

go 1.24

require github.com/flosch/pongo2/v6 v6.0.0
`

const serverMain = `// Command server renders the [[.Name]] templates and serves JSON for
// Alpine.js state classes to consume.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/flosch/pongo2/v6"

	"[[.Name]]/app/routes"
)

func main() {
	loader, err := pongo2.NewLocalFileSystemLoader("templates")
	if err != nil {
		log.Fatalf("loading templates: %v", err)
	}
	set := pongo2.NewSet("[[.Name]]", loader)
	set.Debug = true

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	routes.Register(mux, set)

	addr := ":5000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	log.Printf("listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
`

const serverRoutes = `package routes

import (
	"encoding/json"
	"net/http"

	"github.com/flosch/pongo2/v6"
)

type item struct {
	ID          int    ` + "`json:\"id\"`" + `
	Title       string ` + "`json:\"title\"`" + `
	Description string ` + "`json:\"description\"`" + `
}

// Register mounts the page and API routes. API endpoints return JSON only;
// HTMX fetches it and Alpine.js state classes render it.
func Register(mux *http.ServeMux, set *pongo2.TemplateSet) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		tpl, err := set.FromFile("index.html")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tpl.ExecuteWriter(pongo2.Context{}, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("GET /api/data", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []item{
				{ID: 1, Title: "Item 1", Description: "Data loaded from server"},
				{ID: 2, Title: "Item 2", Description: "HTMX handles the communication"},
				{ID: 3, Title: "Item 3", Description: "Alpine.js renders the data"},
			},
		})
	})

	mux.HandleFunc("GET /api/json-example", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status": "success",
			"data": []map[string]any{
				{"id": 1, "name": "Example 1"},
				{"id": 2, "name": "Example 2"},
			},
		})
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
`

const readme = "# [[.Name]]\n\n" +
	"A zen-temple project: zero-build, zero-magic frontend components.\n\n" +
	"## Philosophy\n\n" +
	"- **No build step required**: edit templates and reload\n" +
	"- **No hidden abstractions**: what you see is what runs\n" +
	"- **Template-centered design**: templates are the source of truth\n" +
	"- **Logic in Alpine.js**: state lives in classes instantiated from `x-data`\n" +
	"- **Server returns JSON**: HTMX fetches it with `hx-swap=\"none\"`\n" +
	"- **HTMX for communication**: declarative requests and events\n\n" +
	"## Project Structure\n\n" +
	"```\n" +
	"[[.Name]]/\n" +
	"├── templates/\n" +
	"│   ├── layouts/base.html      # Base layout with CDN imports\n" +
	"│   ├── components/            # Reusable component macros\n" +
	"[[- if .WithExample]]\n" +
	"│   └── index.html             # Example page\n" +
	"[[- end]]\n" +
	"├── static/                    # Custom CSS and JS\n" +
	"[[- if .WithServer]]\n" +
	"├── app/                       # Go development server\n" +
	"├── go.mod\n" +
	"[[- end]]\n" +
	"└── zen-temple.yaml            # Project configuration\n" +
	"```\n" +
	"[[- if .WithServer]]\n\n" +
	"## Running the Development Server\n\n" +
	"```bash\n" +
	"go mod tidy\n" +
	"go run ./app\n" +
	"```\n\n" +
	"Then open http://localhost:5000 in your browser.\n" +
	"[[- end]]\n\n" +
	"## Working With Components\n\n" +
	"```bash\n" +
	"zen-temple component my-widget --type card\n" +
	"zen-temple validate\n" +
	"zen-temple list-components --with-deps\n" +
	"```\n\n" +
	"Components are macros. Import them into a page and call them:\n\n" +
	"```html\n" +
	"{% import \"components/my-widget.html\" my_widget %}\n" +
	"{{ my_widget() }}\n" +
	"```\n\n" +
	"## Learn More\n\n" +
	"- [HTMX](https://htmx.org/)\n" +
	"- [Alpine.js](https://alpinejs.dev/)\n" +
	"- [Tailwind CSS](https://tailwindcss.com/)\n"
