package article

// fallbackArticles is the bundled dataset served whenever the GitHub
// integration is disabled or failing. Every entry satisfies the same
// invariants as a remote-derived article.
var fallbackArticles = []Article{
	{
		ID:    "astro",
		Title: "Introduction to Astro Framework",
		Slug:  "astro",
		Content: `# Introduction to Astro Framework 🚀

Astro is a modern static site generator designed to create fast and optimized web applications. It enables developers to build websites that are not only lightning-fast but also efficient in terms of performance and user experience.

## Key Features 🌟

1. **Partial Hydration**:
   Astro ships static HTML and only loads JavaScript when interactivity is required, resulting in faster load times.

2. **Framework Agnostic**:
   React, Vue, Svelte, or any other popular framework can be integrated seamlessly.

3. **Static Site Generation (SSG)**:
   Pages are pre-rendered at build time, which makes Astro ideal for blogs and documentation sites.

4. **Markdown Support**:
   Astro transforms Markdown files into static HTML effortlessly.

5. **SEO-Friendly**:
   Static HTML is easy for search engines to crawl and index.`,
		Excerpt:   "Build faster websites with Astro - a modern static site generator with partial hydration and framework agnostic approach.",
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: "2024-01-15T00:00:00Z",
	},
	{
		ID:    "react",
		Title: "Getting Started with React",
		Slug:  "react",
		Content: `# Getting Started with React ⚛️

React is a JavaScript library for building user interfaces with a focus on component-based architecture. It allows developers to create reusable UI components that efficiently manage state and render updates.

## Core Concepts

1. **Components**: Reusable pieces of UI that encapsulate structure and behavior.
2. **JSX**: A syntax extension that allows you to write HTML-like code in JavaScript.
3. **State**: Data that changes over time and triggers re-renders.
4. **Props**: Read-only attributes passed from parent to child components.
5. **Hooks**: Functions that let you use state and other React features.

## Benefits

- **Efficient Rendering**: React uses a virtual DOM to optimize updates
- **Large Ecosystem**: Extensive library support for routing, state management, and more
- **Strong Community**: Widely adopted with abundant learning resources`,
		Excerpt:   "Learn the fundamentals of React, including components, JSX, state management, and hooks.",
		CreatedAt: "2024-01-02T00:00:00Z",
		UpdatedAt: "2024-01-14T00:00:00Z",
	},
	{
		ID:    "docker",
		Title: "Docker Containerization Basics",
		Slug:  "docker",
		Content: `# Docker Containerization Basics 🐳

Docker is a containerization platform that packages applications and their dependencies into isolated containers. This ensures consistent behavior across different environments.

## What are Containers?

Containers are lightweight, standalone packages that contain everything needed to run an application: code, runtime, system tools, libraries, and settings.

## Key Advantages

1. **Consistency**: Same behavior in development, testing, and production
2. **Isolation**: Applications don't interfere with each other
3. **Portability**: Run anywhere Docker is installed
4. **Efficiency**: Lightweight compared to virtual machines
5. **Scalability**: Easy to scale applications horizontally`,
		Excerpt:   "Understand Docker containerization, its benefits, and how to package applications for deployment.",
		CreatedAt: "2024-01-03T00:00:00Z",
		UpdatedAt: "2024-01-13T00:00:00Z",
	},
	{
		ID:    "express",
		Title: "Building APIs with Express.js",
		Slug:  "express",
		Content: `# Building APIs with Express.js 🚀

Express.js is a minimal and flexible Node.js web application framework that provides a robust set of features for web and mobile applications. It's perfect for building REST APIs.

## Express Basics

Express provides routing, middleware, request/response handling, and comprehensive error management.

## Best Practices

- Use proper HTTP methods (GET, POST, PUT, DELETE)
- Implement consistent error responses
- Use middleware for cross-cutting concerns
- Validate input data
- Document your API endpoints`,
		Excerpt:   "Master Express.js for building scalable REST APIs with robust routing and middleware support.",
		CreatedAt: "2024-01-04T00:00:00Z",
		UpdatedAt: "2024-01-12T00:00:00Z",
	},
	{
		ID:    "mongo",
		Title: "MongoDB: NoSQL Database Guide",
		Slug:  "mongo",
		Content: `# MongoDB: NoSQL Database Guide 📊

MongoDB is a NoSQL, document-oriented database that stores data in flexible JSON-like documents. It's designed for scalability and flexibility.

## Key Features

1. **Flexibility**: Schema-less design allows easy modifications
2. **Scalability**: Horizontal scaling through sharding
3. **Indexing**: Supports various indexing strategies for performance
4. **Aggregation**: Powerful pipeline for data transformation
5. **Replication**: Automatic data replication for high availability

## Use Cases

- Content Management Systems
- Real-time analytics
- IoT applications
- Mobile app backends`,
		Excerpt:   "Explore MongoDB as a flexible NoSQL database solution with powerful querying and aggregation capabilities.",
		CreatedAt: "2024-01-05T00:00:00Z",
		UpdatedAt: "2024-01-11T00:00:00Z",
	},
}

// Fallback returns a copy of the bundled article dataset.
func Fallback() []Article {
	out := make([]Article, len(fallbackArticles))
	copy(out, fallbackArticles)
	return out
}

// FallbackByID looks up a bundled article by id. The dataset is a
// handful of entries, so a linear scan is fine.
func FallbackByID(id string) (Article, bool) {
	for _, a := range fallbackArticles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}
