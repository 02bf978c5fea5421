package scaffolding

import "sort"

// ComponentTemplate is a built-in component type. Content is a text/template
// using [[ ]] delimiters so the Jinja-style {{ }} and {% %} markup passes
// through untouched.
type ComponentTemplate struct {
	Name        string
	Description string
	Content     string
}

// TemplateContext holds the names substituted into component templates.
type TemplateContext struct {
	// Name is the component name as given on the command line.
	Name string
	// Macro is the snake_case macro name.
	Macro string
	// State is the PascalCase prefix of the state class.
	State string
}

// DefaultComponentType is used for unknown component types.
const DefaultComponentType = "basic"

var builtinTemplates = map[string]ComponentTemplate{
	"basic": {
		Name:        "basic",
		Description: "Simple component with Alpine.js state",
		Content:     basicComponent,
	},
	"form": {
		Name:        "form",
		Description: "Form component bound to a state object",
		Content:     formComponent,
	},
	"list": {
		Name:        "list",
		Description: "List component loading JSON through HTMX",
		Content:     listComponent,
	},
	"card": {
		Name:        "card",
		Description: "Card or widget component",
		Content:     cardComponent,
	},
}

// GetBuiltinTemplates returns all built-in component templates
func GetBuiltinTemplates() map[string]ComponentTemplate {
	out := make(map[string]ComponentTemplate, len(builtinTemplates))
	for k, v := range builtinTemplates {
		out[k] = v
	}

	return out
}

// ComponentTypes returns the built-in type names, sorted.
func ComponentTypes() []string {
	types := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		types = append(types, name)
	}
	sort.Strings(types)

	return types
}

const basicComponent = `<!-- [[.Name]] Component -->
{% macro [[.Macro]](message="Hello from [[.Name]]!") export %}
<div
    x-data="new [[.State]]State('{{ message }}')"
    class="bg-white rounded-lg shadow-md p-6"
>
    <h3 class="text-xl font-semibold mb-4">[[.Name]]</h3>
    <p x-text="message"></p>
</div>

<script>
// [[.State]]State holds the component state and behaviour
class [[.State]]State {
    constructor(message) {
        this.message = message;
    }
}
</script>
{% endmacro %}
`

const formComponent = `<!-- [[.Name]] Form Component -->
{% macro [[.Macro]]() export %}
<div
    x-data="new [[.State]]State()"
    class="bg-white rounded-lg shadow-md p-6"
>
    <h3 class="text-xl font-semibold mb-4">[[.Name]]</h3>

    <form @submit.prevent="submit()" class="space-y-4">
        <div>
            <label class="block text-sm font-medium text-gray-700 mb-2">
                Field Name
            </label>
            <input
                type="text"
                x-model="formData.field"
                class="w-full px-4 py-2 border border-gray-300 rounded focus:outline-none focus:ring-2 focus:ring-blue-500"
            />
        </div>

        <p x-show="submitted" class="text-sm text-green-600">Submitted.</p>

        <button
            type="submit"
            :disabled="!canSubmit"
            class="bg-blue-500 hover:bg-blue-600 text-white px-6 py-2 rounded"
        >
            Submit
        </button>
    </form>
</div>

<script>
// [[.State]]State holds the form state and behaviour
class [[.State]]State {
    constructor() {
        this.formData = {
            field: ''
        };
        this.submitted = false;
    }

    submit() {
        this.submitted = true;
    }

    get canSubmit() {
        return this.formData.field.trim().length > 0;
    }
}
</script>
{% endmacro %}
`

const listComponent = `<!-- [[.Name]] List Component -->
{% macro [[.Macro]]() export %}
<div
    x-data="new [[.State]]State()"
    @htmx:after-request="sync($event.detail.xhr.response)"
    class="bg-white rounded-lg shadow-md p-6"
>
    <h3 class="text-xl font-semibold mb-4">[[.Name]]</h3>

    <button
        hx-get="/api/[[.Macro]]"
        hx-trigger="click"
        hx-swap="none"
        class="bg-blue-500 hover:bg-blue-600 text-white px-4 py-2 rounded mb-4"
    >
        Load Items
    </button>

    <ul class="space-y-2">
        <template x-for="item in items" :key="item.id">
            <li class="p-3 bg-gray-50 rounded">
                <span x-text="item.name"></span>
            </li>
        </template>
    </ul>

    <div x-show="items.length === 0" class="text-center text-gray-400 py-8">
        No items found.
    </div>

    <div class="mt-4 text-sm text-gray-600">
        <p>Total items: <span x-text="itemCount"></span></p>
    </div>
</div>

<script>
// [[.State]]State holds the list state; sync receives the JSON response
class [[.State]]State {
    constructor() {
        this.items = [];
    }

    sync(jsonData) {
        try {
            const data = typeof jsonData === 'string' ? JSON.parse(jsonData) : jsonData;
            this.items = data.items || data || [];
        } catch (e) {
            console.error('Failed to sync data:', e);
        }
    }

    get itemCount() {
        return this.items.length;
    }
}
</script>
{% endmacro %}
`

const cardComponent = `<!-- [[.Name]] Card Component -->
{% macro [[.Macro]](title="[[.Name]]", description="Card description goes here.") export %}
<div
    x-data="new [[.State]]State('{{ title }}', '{{ description }}')"
    class="bg-white rounded-lg shadow-md overflow-hidden"
>
    <div class="p-6">
        <h3 class="text-xl font-semibold mb-2" x-text="title"></h3>
        <p class="text-gray-600 mb-4" x-text="description"></p>

        <button
            @click="toggle()"
            class="bg-blue-500 hover:bg-blue-600 text-white px-4 py-2 rounded"
        >
            <span x-text="expanded ? 'Less' : 'More'"></span>
        </button>
    </div>
</div>

<script>
// [[.State]]State holds the card state and behaviour
class [[.State]]State {
    constructor(title, description) {
        this.title = title;
        this.description = description;
        this.expanded = false;
    }

    toggle() {
        this.expanded = !this.expanded;
    }
}
</script>
{% endmacro %}
`
