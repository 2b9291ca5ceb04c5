// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package annotations extracts typed key/value annotations from docblocks.
//
// An annotation is introduced by an @identifier marker and runs until the
// next marker. Its value is coerced into one of the kinds defined by the
// value package:
//
//	/**
//	 * @get @post
//	 * @path /users/{id}
//	 * @timeout 2.5
//	 * @retries integer 3
//	 * @tags ["users", "admin"]
//	 * @deprecated
//	 */
//
// Here get, post and deprecated are implicit booleans, path is a string,
// timeout is a float, retries is an integer forced by an explicit cast and
// tags is structured data.
//
// # Casts
//
// The reserved words string, integer, float and json written in front of a
// value force its type. A value which doesn't satisfy its cast fails the
// parse instead of falling back to a string. The arrow cast (->) forces
// hydration of the value into the type named by the annotation key.
//
// # Multiple values
//
// Repeating a marker, or writing several literals on one line, turns an
// entry into a list:
//
//	/**
//	 * @value 1 2 3
//	 * @value "four"
//	 */
//
// # Namespaces
//
// A bare marker followed by deeper indented markers opens a namespace.
// Nested keys are joined with dots:
//
//	/**
//	 * @route
//	 *   @method GET
//	 *   @path /users
//	 */
//
// results in the keys route.method and route.path. A [Bag] implements
// config.Source so namespaced annotations can be unmarshalled into structs.
//
// # Hydration
//
// When an annotation key names a type known to the [hydrate.TypeResolver]
// given to [WithTypeResolver], a JSON array value is bound to the type's
// constructor and a JSON object value is applied through its setters.
package annotations
